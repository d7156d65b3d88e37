// Package terminal renders a chat session on a text terminal and reads
// the user's input lines.
package terminal

import (
	"fmt"
	"io"
	"sync"

	"chat-session/internal/protocol"
	"chat-session/internal/session"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

var _ session.Observer = (*Renderer)(nil)

// Renderer prints session changes as they happen.
type Renderer struct {
	mu     sync.Mutex
	out    io.Writer
	self   string
	colors bool

	selfStyle   color.Style
	peerStyle   color.Style
	systemStyle color.Style
	errorStyle  color.Style
	stateStyle  color.Style
}

func NewRenderer(out io.Writer, colors bool) *Renderer {
	return &Renderer{
		out:         out,
		colors:      colors,
		selfStyle:   color.New(color.FgGreen, color.OpBold),
		peerStyle:   color.New(color.FgCyan),
		systemStyle: color.New(color.FgGray, color.OpItalic),
		errorStyle:  color.New(color.FgRed),
		stateStyle:  color.New(color.FgYellow),
	}
}

// SetSelf marks which author is the local user, so their lines stand out.
func (r *Renderer) SetSelf(username string) {
	r.mu.Lock()
	r.self = username
	r.mu.Unlock()
}

func (r *Renderer) StateChanged(_, to session.State) {
	r.printf("%s\n", r.paint(r.stateStyle, "* "+to.String()))
}

func (r *Renderer) MessageAppended(msg protocol.ChatMessage) {
	if msg.Username == protocol.SystemUsername {
		r.printf("%s\n", r.paint(r.systemStyle, "* "+msg.Text))
		return
	}

	r.mu.Lock()
	style := r.peerStyle
	if msg.Username != "" && msg.Username == r.self {
		style = r.selfStyle
	}
	r.mu.Unlock()

	r.printf("%s: %s\n", r.paint(style, msg.Username), msg.Text)
}

func (r *Renderer) RosterReplaced(roster []protocol.RosterEntry) {
	r.Roster(roster, len(roster))
}

func (r *Renderer) CountChanged(count int) {
	r.Roster(nil, count)
}

func (r *Renderer) ErrorRecorded(err error) {
	r.printf("%s\n", r.paint(r.errorStyle, "! "+err.Error()))
}

// Roster prints the entries as a table when there are any, followed by the
// connected count.
func (r *Renderer) Roster(roster []protocol.RosterEntry, count int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(roster) > 0 {
		table := tablewriter.NewWriter(r.out)
		table.SetHeader([]string{"Username", "Description"})
		table.SetAutoWrapText(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.AppendBulk(lo.Map(roster, func(e protocol.RosterEntry, _ int) []string {
			return []string{e.Username, e.Description}
		}))
		table.Render()
	}
	fmt.Fprintf(r.out, "Connected Clients: %d\n", count)
}

func (r *Renderer) paint(style color.Style, s string) string {
	if !r.colors {
		return s
	}
	return style.Render(s)
}

func (r *Renderer) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format, args...)
}
