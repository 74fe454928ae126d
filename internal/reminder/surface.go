package reminder

import (
	"log/slog"
	"sync"
	"time"
)

// Panel is a reminder being shown on the surface. Dismissing it more
// than once is a no-op.
type Panel struct {
	Reminder Reminder
	ShownAt  time.Time

	once    sync.Once
	timer   *time.Timer
	onClose func()
}

func (p *Panel) Dismiss() {
	p.once.Do(func() {
		if p.timer != nil {
			p.timer.Stop()
		}
		p.onClose()
	})
}

// PanelSurface keeps fired reminders visible until they are dismissed
// or their auto-dismiss window runs out.
type PanelSurface struct {
	mu          sync.Mutex
	panels      map[string]*Panel
	autoDismiss time.Duration
	log         *slog.Logger
}

func NewPanelSurface(autoDismissMS int, log *slog.Logger) *PanelSurface {
	if log == nil {
		log = slog.Default()
	}
	return &PanelSurface{
		panels:      map[string]*Panel{},
		autoDismiss: time.Duration(autoDismissMS) * time.Millisecond,
		log:         log,
	}
}

func (ps *PanelSurface) Display(r Reminder) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	p := &Panel{Reminder: r, ShownAt: time.Now()}
	p.onClose = func() {
		ps.mu.Lock()
		delete(ps.panels, r.ID)
		ps.mu.Unlock()
	}
	if ps.autoDismiss > 0 {
		p.timer = time.AfterFunc(ps.autoDismiss, p.Dismiss)
	}
	ps.panels[r.ID] = p

	ps.log.Info("reminder", "task", r.TaskTitle, "message", r.Message)
}

// Panels returns the reminders currently showing.
func (ps *PanelSurface) Panels() []Reminder {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	out := make([]Reminder, 0, len(ps.panels))
	for _, p := range ps.panels {
		out = append(out, p.Reminder)
	}
	return out
}

// Dismiss closes one panel by reminder ID.
func (ps *PanelSurface) Dismiss(id string) bool {
	ps.mu.Lock()
	p, ok := ps.panels[id]
	ps.mu.Unlock()
	if !ok {
		return false
	}
	p.Dismiss()
	return true
}

// Close dismisses everything still showing.
func (ps *PanelSurface) Close() {
	ps.mu.Lock()
	open := make([]*Panel, 0, len(ps.panels))
	for _, p := range ps.panels {
		open = append(open, p)
	}
	ps.mu.Unlock()

	for _, p := range open {
		p.Dismiss()
	}
}
