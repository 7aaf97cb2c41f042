package controller

import (
	"sort"

	"github.com/gofiber/fiber/v2"

	"statbot/internal/reactionrole"
	"statbot/internal/service"
)

type ReactionRoleController interface {
	List(c *fiber.Ctx) error
	Create(c *fiber.Ctx) error
	Edit(c *fiber.Ctx) error
}

type reactionRoleController struct {
	reactionRoles service.ReactionRoleService
}

// NewReactionRoleController builds a ReactionRoleController.
func NewReactionRoleController(svc service.ReactionRoleService) ReactionRoleController {
	return &reactionRoleController{reactionRoles: svc}
}

type createReactionRoleRequest struct {
	GuildID   string                     `json:"guild_id"`
	ChannelID string                     `json:"channel_id"`
	Title     string                     `json:"title"`
	Bindings  []reactionrole.BindingSpec `json:"bindings"`
}

type editReactionRoleRequest struct {
	GuildID  string                     `json:"guild_id"`
	Bindings []reactionrole.BindingSpec `json:"bindings"`
}

type entryResponse struct {
	MessageID string            `json:"message_id"`
	ChannelID string            `json:"channel_id"`
	Bindings  map[string]string `json:"bindings"`
}

// List returns every tracked reaction-role message ordered by message id.
func (h *reactionRoleController) List(c *fiber.Ctx) error {
	entries := h.reactionRoles.List()
	sort.Slice(entries, func(i, j int) bool { return entries[i].MessageID < entries[j].MessageID })

	resp := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, entryResponse{MessageID: e.MessageID, ChannelID: e.ChannelID, Bindings: e.Bindings})
	}
	return c.JSON(resp)
}

// Create posts a new reaction-role message.
func (h *reactionRoleController) Create(c *fiber.Ctx) error {
	var req createReactionRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}
	if req.GuildID == "" || req.ChannelID == "" || req.Title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "guild_id, channel_id and title are required")
	}

	result, err := h.reactionRoles.Create(c.UserContext(), req.GuildID, req.ChannelID, req.Title, req.Bindings)
	if err != nil {
		return toHTTPError(err, "failed to create reaction-role message")
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// Edit replaces the bindings of an existing reaction-role message.
func (h *reactionRoleController) Edit(c *fiber.Ctx) error {
	var req editReactionRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}
	if req.GuildID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "guild_id is required")
	}

	result, err := h.reactionRoles.Edit(c.UserContext(), req.GuildID, c.Params("message_id"), req.Bindings)
	if err != nil {
		return toHTTPError(err, "failed to edit reaction-role message")
	}
	return c.JSON(result)
}
