package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/san-kum/mrviz/internal/sequencer"
	"github.com/san-kum/mrviz/internal/trace"
)

const (
	defaultWidth  = 120
	frameInterval = time.Second / 60
	// maxFrameStep caps how far one tick advances the loop, so a stalled
	// terminal does not skip a whole stage at once.
	maxFrameStep = 100 * time.Millisecond
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

type PlayerOption func(*Player)

func WithTheme(name string) PlayerOption {
	return func(p *Player) { p.theme = GetTheme(name) }
}

// WithAutoRun starts the animation as soon as the player is created.
func WithAutoRun() PlayerOption {
	return func(p *Player) { p.autoRun = true }
}

func WithLogger(l *log.Logger) PlayerOption {
	return func(p *Player) { p.logger = l }
}

// Player contains the sequencer, its loop, the board and UI context.
type Player struct {
	loop     *sequencer.Loop
	seq      *sequencer.Sequencer
	board    *Board
	text     string
	editing  bool
	editBuf  string
	theme    Theme
	styles   Styles
	width    int
	lastTick time.Time
	showHelp bool
	autoRun  bool
	logger   *log.Logger
}

func NewPlayer(text string, timing sequencer.Timing, opts ...PlayerOption) Player {
	p := Player{
		loop:  sequencer.NewLoop(),
		board: NewBoard(),
		text:  text,
		theme: ThemeSlate,
		width: defaultWidth,
	}
	for _, opt := range opts {
		opt(&p)
	}
	p.styles = NewStyles(p.theme)

	seqOpts := []sequencer.Option{sequencer.WithTiming(timing)}
	if p.logger != nil {
		seqOpts = append(seqOpts, sequencer.WithLogger(p.logger))
	}
	p.seq = sequencer.New(p.loop, p.board, seqOpts...)

	if p.autoRun {
		p.seq.Run(p.text)
	}
	return p
}

func (p Player) Board() *Board                  { return p.board }
func (p Player) Sequencer() *sequencer.Sequencer { return p.seq }
func (p Player) Text() string                   { return p.text }
func (p Player) Editing() bool                  { return p.editing }
func (p Player) Theme() Theme                   { return p.theme }

func (p Player) Init() tea.Cmd {
	return tick()
}

// Update handles input and advances the loop on every tick.
func (p Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return p, tea.Quit
		}
		if p.editing {
			return p.editKey(msg), nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return p, tea.Quit
		case "enter", "r":
			p.seq.Run(p.text)
		case "x":
			p.seq.Reset()
		case "e":
			p.editing, p.editBuf = true, p.text
		case "t":
			p.theme = NextTheme(p.theme)
			p.styles = NewStyles(p.theme)
		case "?":
			p.showHelp = !p.showHelp
		}
	case tea.WindowSizeMsg:
		p.width = msg.Width
	case TickMsg:
		now := time.Time(msg)
		if !p.lastTick.IsZero() {
			d := now.Sub(p.lastTick)
			if d > maxFrameStep {
				d = maxFrameStep
			}
			if d > 0 {
				p.loop.Advance(d)
			}
		}
		p.lastTick = now
		return p, tick()
	}
	return p, nil
}

func (p Player) editKey(msg tea.KeyMsg) Player {
	switch msg.Type {
	case tea.KeyEnter:
		p.text, p.editing, p.editBuf = p.editBuf, false, ""
	case tea.KeyEsc:
		p.editing, p.editBuf = false, ""
	case tea.KeyBackspace:
		if r := []rune(p.editBuf); len(r) > 0 {
			p.editBuf = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		p.editBuf += " "
	case tea.KeyRunes:
		p.editBuf += string(msg.Runes)
	}
	return p
}

// View renders the input card, the stage label and the three stage columns.
func (p Player) View() string {
	st := p.styles
	var s strings.Builder

	s.WriteString(st.Title.Render("MapReduce: Word Count (Animated)") + "\n")
	s.WriteString(st.Subtitle.Render("Map → Shuffle/Sort → Reduce on your text.") + "\n")

	inner := p.width - 4
	if inner < 20 {
		inner = 20
	}
	if p.editing {
		s.WriteString(st.Editing.Width(inner).Render(p.editBuf+"▏") + "\n")
	} else {
		s.WriteString(st.Input.Width(inner).Render(p.text) + "\n")
	}

	run := "[enter] ▶ Run animation"
	if !p.board.RunEnabled {
		run = st.Muted.Render(run)
	}
	s.WriteString(run + "   [x] ↺ Reset\n")

	label := "Stage: " + p.board.Stage.Label()
	if p.board.Stage == sequencer.StageDone {
		s.WriteString(st.Done.Render(label) + "\n")
	} else {
		s.WriteString(st.Stage.Render(label) + "\n")
	}

	colWidth := (p.width - 6) / 3
	if colWidth < 24 {
		colWidth = 24
	}
	if p.board.Empty() && p.board.Stage == sequencer.StageIdle {
		s.WriteString(st.Muted.Render("Press enter to run the animation.") + "\n")
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		p.card("Map (tokenize → emit <word, 1>)", p.mapColumn(colWidth-4), colWidth),
		p.card("Shuffle / Group by key", p.shuffleColumn(colWidth-4), colWidth),
		p.card("Reduce (sum counts)", p.reduceColumn(colWidth-4), colWidth),
	)
	s.WriteString(row + "\n")

	if p.board.Stage == sequencer.StageDone {
		if sess := p.seq.Current(); sess != nil {
			if chart := trace.Plot(sess.Results, colWidth*2, 6); chart != "" {
				s.WriteString(st.Muted.Render(chart) + "\n")
			}
		}
	}

	if p.showHelp {
		tm := p.seq.Timing()
		s.WriteString(st.Help.Render("enter/r: run  x: reset  e: edit text  t: theme  ?: help  q: quit") + "\n")
		s.WriteString(st.Muted.Render(fmt.Sprintf("map step %v  stage gap %v  chip step %v", tm.MapStep, tm.StageGap, tm.ChipStep)) + "\n")
	} else {
		s.WriteString(st.Help.Render("Tip: edit the text with e and re-run. Keys are lowercased; non-alphanumerics are ignored.") + "\n")
	}
	return s.String()
}

func (p Player) card(title, body string, width int) string {
	content := p.styles.CardHead.Render(title) + "\n" + body
	return p.styles.Card.Width(width).Render(content)
}

func (p Player) mapColumn(width int) string {
	chips := make([]string, len(p.board.MapChips))
	for i, c := range p.board.MapChips {
		chips[i] = p.styles.Chip(string(c.Key), c.Value)
	}
	body := wrapChips(chips, width)

	if sess := p.seq.Current(); sess != nil && len(sess.Pairs) > 0 {
		bar := ProgressBar(len(p.board.MapChips), len(sess.Pairs), width-8)
		body += "\n" + p.styles.Muted.Render(fmt.Sprintf("%s %d/%d", bar, len(p.board.MapChips), len(sess.Pairs)))
	}
	return body
}

func (p Player) shuffleColumn(width int) string {
	boxes := make([]string, len(p.board.Buckets))
	for i, bk := range p.board.Buckets {
		chips := make([]string, len(bk.Chips))
		for j, c := range bk.Chips {
			chips[j] = p.styles.Chip(string(c.Key), c.Value)
		}
		content := p.styles.BucketHd.Render(string(bk.Key))
		if len(chips) > 0 {
			content += "\n" + wrapChips(chips, width-4)
		}
		boxes[i] = p.styles.Bucket.Render(content)
	}
	return lipgloss.JoinVertical(lipgloss.Left, boxes...)
}

func (p Player) reduceColumn(width int) string {
	chips := make([]string, len(p.board.Reduced))
	for i, c := range p.board.Reduced {
		chips[i] = p.styles.Chip(string(c.Key), c.Value)
	}
	return wrapChips(chips, width)
}

// Run starts the player full screen and blocks until the user quits.
func Run(p Player) error {
	_, err := tea.NewProgram(p, tea.WithAltScreen()).Run()
	return err
}
