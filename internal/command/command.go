package command

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"statbot/internal/model"
	"statbot/internal/reactionrole"
	"statbot/internal/report"
	"statbot/internal/service"
)

const (
	reportUsage = "Invalid argument. Usage: `!<command> <months ago>`, for example `!count 2`."
	rrUsage     = "Usage: `!rr new <title> <emoji> <role> ...`, `!rr edit <message id> <emoji> <role> ...` or `!rr list`."
	failureText = "Something went wrong, check the logs."

	typingRefresh = 8 * time.Second
)

// Responder posts and manages the bot's replies.
type Responder interface {
	SendMessage(ctx context.Context, channelID, content string) (string, error)
	EditMessage(ctx context.Context, channelID, messageID, content string) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	Typing(ctx context.Context, channelID string) error
}

// Request is an incoming chat message that may hold a command.
type Request struct {
	GuildID   string
	ChannelID string
	AuthorID  string
	Content   string

	// AuthorRoles are the names of the author's roles in the guild.
	AuthorRoles []string
}

// Router parses commands and dispatches them to the services.
type Router struct {
	reports       service.ReportService
	reactionRoles service.ReactionRoleService
	out           Responder
	ownerID       string
	statsRole     string
	shutdown      func()
}

// NewRouter constructs a Router. shutdown is called for the owner's quit
// command.
func NewRouter(reports service.ReportService, reactionRoles service.ReactionRoleService, out Responder, ownerID, statsRole string, shutdown func()) *Router {
	return &Router{
		reports:       reports,
		reactionRoles: reactionRoles,
		out:           out,
		ownerID:       ownerID,
		statsRole:     statsRole,
		shutdown:      shutdown,
	}
}

// Handle runs the command in req, if any. User mistakes are answered in the
// channel; only failures to reply are returned.
func (r *Router) Handle(ctx context.Context, req Request) error {
	content := strings.TrimSpace(req.Content)
	if !strings.HasPrefix(content, "!") {
		return nil
	}
	fields := strings.Fields(content)

	if req.AuthorID == r.ownerID {
		switch fields[0] {
		case "!quit":
			log.Printf("[INFO] quit requested by owner")
			if r.shutdown != nil {
				r.shutdown()
			}
			return nil
		case "!rr":
			return r.reply(ctx, req.ChannelID, r.reactionRole(ctx, req, fields[1:]))
		}
	}

	if req.GuildID == "" || !slices.Contains(req.AuthorRoles, r.statsRole) {
		return nil
	}
	return r.report(ctx, req, fields[0], fields[1:])
}

func (r *Router) report(ctx context.Context, req Request, name string, args []string) error {
	kind, ok := report.ParseKind(strings.TrimPrefix(name, "!"))
	if !ok {
		return r.send(ctx, req.ChannelID, (&model.UnknownCommandError{Command: name}).Error())
	}

	monthsAgo, err := parseMonthsAgo(args)
	if err != nil {
		return r.send(ctx, req.ChannelID, reportUsage)
	}

	stopTyping := r.keepTyping(ctx, req.ChannelID)
	defer stopTyping()

	statusID, err := r.out.SendMessage(ctx, req.ChannelID, "Working...")
	if err != nil {
		return err
	}
	progress := report.ProgressFunc(func(ctx context.Context, ch model.Channel) error {
		return r.out.EditMessage(ctx, req.ChannelID, statusID, "Working... "+ch.Mention())
	})

	result, err := r.reports.ComputeReport(ctx, kind, req.GuildID, monthsAgo, progress)

	if delErr := r.out.DeleteMessage(ctx, req.ChannelID, statusID); delErr != nil {
		log.Printf("[WARN] delete status message %s: %v", statusID, delErr)
	}

	if err != nil {
		return r.reply(ctx, req.ChannelID, "", err)
	}
	return r.send(ctx, req.ChannelID, result)
}

func (r *Router) reactionRole(ctx context.Context, req Request, args []string) (string, error) {
	if len(args) == 0 {
		return rrUsage, nil
	}

	switch args[0] {
	case "new":
		if len(args) < 2 {
			return rrUsage, nil
		}
		_, err := r.reactionRoles.Create(ctx, req.GuildID, req.ChannelID, args[1], reactionrole.ParseBindingSpecs(args[2:]))
		return "", err
	case "edit":
		if len(args) < 2 {
			return rrUsage, nil
		}
		_, err := r.reactionRoles.Edit(ctx, req.GuildID, args[1], reactionrole.ParseBindingSpecs(args[2:]))
		if err != nil {
			return "", err
		}
		return "Updated.", nil
	case "list":
		return renderEntries(r.reactionRoles.List()), nil
	default:
		return rrUsage, nil
	}
}

// reply sends text, or a description of err when err is set.
func (r *Router) reply(ctx context.Context, channelID, text string, err error) error {
	if err != nil {
		if model.IsUserError(err) {
			text = err.Error()
		} else {
			log.Printf("[ERROR] command in channel %s failed: %v", channelID, err)
			text = failureText
			if errors.Is(err, context.DeadlineExceeded) {
				text = "That took too long, try again later."
			}
		}
	}
	if text == "" {
		return nil
	}
	return r.send(ctx, channelID, text)
}

func (r *Router) send(ctx context.Context, channelID, text string) error {
	for _, chunk := range SplitMessage(text, MaxMessageLength) {
		if _, err := r.out.SendMessage(ctx, channelID, chunk); err != nil {
			return err
		}
	}
	return nil
}

// keepTyping shows the typing indicator until the returned func is called.
func (r *Router) keepTyping(ctx context.Context, channelID string) func() {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(typingRefresh)
		defer ticker.Stop()
		for {
			if err := r.out.Typing(ctx, channelID); err != nil && ctx.Err() == nil {
				log.Printf("[WARN] typing indicator in channel %s: %v", channelID, err)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return cancel
}

func parseMonthsAgo(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return 0, &model.InvalidArgumentError{Argument: args[0]}
	}
	return n, nil
}

func renderEntries(entries []reactionrole.Entry) string {
	if len(entries) == 0 {
		return "No reaction-role messages."
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].MessageID < entries[j].MessageID })

	var b strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&b, "`%s` in %s:", entry.MessageID, model.ChannelMention(entry.ChannelID))
		for _, emoji := range entry.Emojis() {
			fmt.Fprintf(&b, " %s `%s`", emoji, entry.Bindings[emoji])
		}
		b.WriteString("\n")
	}
	return b.String()
}
