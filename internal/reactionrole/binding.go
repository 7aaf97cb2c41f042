package reactionrole

import (
	"fmt"
	"strings"

	"statbot/internal/model"
)

// BindingSpec is an emoji and a role name as typed by the user.
type BindingSpec struct {
	Emoji string `json:"emoji"`
	Role  string `json:"role"`
}

// Binding is a BindingSpec with its role resolved.
type Binding struct {
	Emoji    string
	RoleID   string
	RoleName string
}

// ParseBindingSpecs pairs up "emoji role emoji role ..." arguments. A
// trailing unpaired argument is ignored.
func ParseBindingSpecs(args []string) []BindingSpec {
	specs := make([]BindingSpec, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		specs = append(specs, BindingSpec{Emoji: args[i], Role: args[i+1]})
	}
	return specs
}

// ResolveBindings resolves each spec's role by exact name, in order, and
// stops at the first name that does not exist in roles.
func ResolveBindings(roles []model.Role, specs []BindingSpec) ([]Binding, error) {
	bindings := make([]Binding, 0, len(specs))
	for _, spec := range specs {
		role, ok := findRole(roles, spec.Role)
		if !ok {
			return nil, &model.UnknownRoleError{Role: spec.Role}
		}
		bindings = append(bindings, Binding{
			Emoji:    NormalizeToken(spec.Emoji),
			RoleID:   role.ID,
			RoleName: role.Name,
		})
	}
	return bindings, nil
}

func findRole(roles []model.Role, name string) (model.Role, bool) {
	for _, r := range roles {
		if r.Name == name {
			return r, true
		}
	}
	return model.Role{}, false
}

// RenderBody builds the message text for a reaction-role message.
func RenderBody(title string, bindings []Binding) string {
	return RenderBodyWithHeader(fmt.Sprintf("**%s**", title), bindings)
}

// RenderBodyWithHeader builds the message text below an existing first line.
func RenderBodyWithHeader(header string, bindings []Binding) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	for _, binding := range bindings {
		fmt.Fprintf(&b, "%s : `%s`\n", binding.Emoji, binding.RoleName)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// HeaderOf returns the first line of a rendered body.
func HeaderOf(body string) string {
	header, _, _ := strings.Cut(body, "\n")
	return header
}

// ReactionOrder returns the distinct emoji of bindings in first-seen order.
func ReactionOrder(bindings []Binding) []string {
	seen := make(map[string]bool, len(bindings))
	out := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if seen[b.Emoji] {
			continue
		}
		seen[b.Emoji] = true
		out = append(out, b.Emoji)
	}
	return out
}

func bindingMap(bindings []Binding) map[string]string {
	m := make(map[string]string, len(bindings))
	for _, b := range bindings {
		m[b.Emoji] = b.RoleID
	}
	return m
}
