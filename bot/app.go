// Package bot adapts the calculator dialogue to Telegram: it turns updates
// into dialogue events and renders the resulting actions.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/calcbot/core/bootstrap"
	"github.com/m3rciful/calcbot/core/calc/dialogue"
	"github.com/m3rciful/calcbot/core/calc/ops"
	coreconfig "github.com/m3rciful/calcbot/core/config"
	"github.com/m3rciful/calcbot/core/history"
	"github.com/m3rciful/calcbot/core/logger"
	"github.com/m3rciful/calcbot/core/state"
	coretelegram "github.com/m3rciful/calcbot/core/telegram"
	"github.com/m3rciful/calcbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/calcbot/core/telegram/helpers"
	"github.com/m3rciful/calcbot/core/telegram/router"
)

const component = "app"

// App owns the dialogue machine and the Telegram wiring around it.
type App struct {
	cfg      *coreconfig.Config
	infra    *bootstrap.Result
	sessions *state.MemoryManager
	history  history.Store
	machine  *dialogue.Machine
	registry *coretelegram.Registry

	mu          sync.Mutex
	stopJanitor context.CancelFunc
	janitorDone chan struct{}
}

// New builds the app from normalized config and bootstrapped infrastructure.
func New(cfg *coreconfig.Config, infra *bootstrap.Result) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot: nil config")
	}
	if infra == nil {
		infra = &bootstrap.Result{}
	}
	store := infra.History
	if store == nil {
		store = history.NewMemoryStore(cfg.Calc.HistorySize)
	}

	sessions := state.NewMemoryManager(state.WithIdleTTL(cfg.Calc.SessionIdleTTL))
	machine := dialogue.NewMachine(sessions, ops.Default(),
		dialogue.WithHistory(store),
		dialogue.WithMaxInputLength(cfg.Calc.MaxExpressionLength),
	)
	a := &App{
		cfg:      cfg,
		infra:    infra,
		sessions: sessions,
		history:  store,
		machine:  machine,
		registry: coretelegram.NewRegistry(),
	}
	if err := a.register(); err != nil {
		return nil, err
	}
	return a, nil
}

// Registry exposes the command and callback registry.
func (a *App) Registry() *coretelegram.Registry { return a.registry }

func (a *App) register() error {
	for name, cmd := range a.commandSet() {
		if err := a.registry.RegisterCommand(name, cmd); err != nil {
			return fmt.Errorf("bot: %w", err)
		}
	}
	for key, h := range map[string]tele.HandlerFunc{
		callbackOperation: a.onCallback,
		callbackCancel:    a.onCallback,
	} {
		if err := a.registry.RegisterCallback(key, h); err != nil {
			return fmt.Errorf("bot: %w", err)
		}
	}
	a.registry.SetCallbackNotFound(a.onCallbackNotFound)
	a.registry.SetTextFallback(a.onText)
	a.registry.SetMediaFallback(a.onMedia)
	return nil
}

// TelegramRunOptions assembles routes, middleware and lifecycle hooks.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	routes := router.CommandRoutes(a.registry, router.CommandRouteOptions{
		AdminID:       a.cfg.Telegram.AdminID,
		OnAdminReject: a.onAdminReject,
	})
	routes = append(routes, router.CallbackRoute(a.registry, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(a.registry, router.TextOptions{})...)

	return coretelegram.RunOptions{
		Config:            a.cfg,
		Registry:          a.registry,
		DispatcherOptions: coretelegram.DispatcherOptionsFrom(a.cfg),
		Middlewares:       coretelegram.DefaultMiddlewares(a.cfg, a.onRateLimited),
		Routes:            routes,
		OnStart:           a.onStart,
		OnStop:            a.onStop,
	}, nil
}

func (a *App) onStart(ctx context.Context, _ coretelegram.Runtime) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	jctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	a.stopJanitor, a.janitorDone = cancel, done
	go func() {
		defer close(done)
		a.sessions.RunJanitor(jctx, a.cfg.Calc.JanitorInterval)
	}()
	logger.Info(ctx, component, "janitor.start",
		slog.Duration("interval", a.cfg.Calc.JanitorInterval),
		slog.Duration("ttl", a.cfg.Calc.SessionIdleTTL),
	)
	return nil
}

func (a *App) onStop(ctx context.Context, _ coretelegram.Runtime) error {
	a.mu.Lock()
	if a.stopJanitor != nil {
		a.stopJanitor()
		<-a.janitorDone
		a.stopJanitor = nil
	}
	a.mu.Unlock()

	if err := a.infra.Close(); err != nil {
		logger.Warn(ctx, component, "db.close",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		return err
	}
	return nil
}

// dispatch feeds ev to the machine and renders the actions onto c.
func (a *App) dispatch(c tele.Context, ev dialogue.Event) error {
	ctx := tghelpers.BuildContext(c)
	a.machine.OnEvent(ctx, ev, newEmitter(c, a.machine.Registry()))
	return nil
}

func senderID(c tele.Context) int64 {
	if u := c.Sender(); u != nil {
		return u.ID
	}
	return 0
}

func (a *App) onStartCommand(c tele.Context) error {
	return a.dispatch(c, dialogue.StartCommand{UserID: senderID(c)})
}

func (a *App) onCancelCommand(c tele.Context) error {
	return a.dispatch(c, dialogue.CancelCommand{UserID: senderID(c)})
}

func (a *App) onCallback(c tele.Context) error {
	unique, payload := callbacks.ParseCallbackData(c.Callback())
	return a.dispatch(c, eventFromCallback(senderID(c), unique, payload))
}

func (a *App) onCallbackNotFound(c tele.Context) error {
	_ = c.Respond(&tele.CallbackResponse{Text: "Unsupported action"})
	unique, _ := callbacks.ParseCallbackData(c.Callback())
	return a.dispatch(c, eventFromCallback(senderID(c), unique, ""))
}

func (a *App) onText(c tele.Context) error {
	return a.dispatch(c, eventFromText(senderID(c), c.Text()))
}

func (a *App) onMedia(c tele.Context) error {
	return a.dispatch(c, dialogue.Unrecognized{UserID: senderID(c), Reason: reasonUnsupported})
}

func (a *App) onAdminReject(c tele.Context) error {
	return tghelpers.SendText(c, "This command is available to the bot admin only.")
}

func (a *App) onRateLimited(c tele.Context) error {
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Slow down a little."})
	}
	return tghelpers.SendText(c, "Too many requests, please slow down.")
}
