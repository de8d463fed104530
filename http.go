package storefront

import (
	"net/http"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RouteGate applies the pure routing decision on every request and on every
// identity transition. It reads the latest identity snapshot from the
// session manager, never a cached copy, so a creator signing in mid-browse
// is moved on their next navigation.
type RouteGate struct {
	manager      *SessionManager
	cfg          Config
	logger       Logger
	swapView     string
	ErrorHandler func(c router.Context, err error) error
}

// RouteGateOption customizes gate middleware construction.
type RouteGateOption func(*RouteGate)

// WithRouteGateLogger overrides the gate logger.
func WithRouteGateLogger(logger Logger) RouteGateOption {
	return func(g *RouteGate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithRedirectSwap renders the named view in place of issuing redirects.
// Used by shells that prefer to swap the dashboard component instead of a
// round trip.
func WithRedirectSwap(view string) RouteGateOption {
	return func(g *RouteGate) {
		g.swapView = view
	}
}

// NewRouteGate returns gate middleware bound to the session manager.
func NewRouteGate(manager *SessionManager, cfg Config, opts ...RouteGateOption) *RouteGate {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	g := &RouteGate{
		manager: manager,
		cfg:     cfg,
		logger:  defLogger{},
	}
	g.ErrorHandler = g.defaultErrHandler

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// Middleware evaluates Decide for the request path before the handler runs.
func (g *RouteGate) Middleware() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			snapshot := g.manager.CurrentIdentity()
			action := Decide(snapshot.Session, snapshot.IsCreator, c.Path(), g.navContext(c))

			switch action.Kind {
			case ActionRedirect:
				g.logger.Debug(
					"route gate redirect",
					"path", c.Path(),
					"target", action.Path,
					"creator", snapshot.IsCreator,
				)

				if g.swapView != "" {
					return c.Render(g.swapView, router.ViewContext{
						"identity": snapshot,
						"target":   action.Path,
					})
				}

				return c.Redirect(action.Path, redirectStatus(c))

			case ActionSwap:
				return c.Render(action.Component, router.ViewContext{
					"identity": snapshot,
				})
			}

			c.SetContext(WithIdentity(c.Context(), snapshot))
			return next(c)
		}
	}
}

// navContext lifts navigation inputs out of the request so Decide stays
// pure. The recovery token travels as a query parameter on the reset link.
func (g *RouteGate) navContext(c router.Context) NavContext {
	return NavContext{
		RecoveryToken: c.Query("recovery_token", ""),
	}
}

// SetRedirect remembers the rejected route so a later sign-in can return
// the visitor where they were headed.
func (g *RouteGate) SetRedirect(c router.Context) {
	rejectedRoute := g.cfg.GetRejectedRouteKey()

	g.logger.Info("setting redirect cookie", "key", rejectedRoute, "path", c.OriginalURL())

	c.Cookie(&router.Cookie{
		Name:     rejectedRoute,
		Value:    c.OriginalURL(),
		Expires:  time.Now().Add(time.Minute * 5),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

// GetRedirectOrDefault consumes the rejected-route cookie, falling back to
// the referer header and then the configured default.
func (g *RouteGate) GetRedirectOrDefault(c router.Context) string {
	rejectedRoute := g.cfg.GetRejectedRouteKey()
	refererHeader := string(c.Referer())

	r := c.Cookies(rejectedRoute, refererHeader)
	if r == "" {
		r = g.cfg.GetRejectedRouteDefault()
	}
	g.cookieDel(c, rejectedRoute)
	return r
}

func (g *RouteGate) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (g *RouteGate) defaultErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	g.logger.Info(
		"route gate error handler",
		"error", richErr.Message,
		"category", richErr.Category,
		"details", print.MaybePrettyJSON(richErr.Metadata),
	)

	switch richErr.Category {
	case errors.CategoryAuth, errors.CategoryAuthz:
		g.SetRedirect(c)
		return c.Redirect(g.cfg.GetAuthPath(), redirectStatus(c))
	default:
		return c.Status(richErr.Code).Render("errors/500", router.ViewContext{
			"error": richErr,
		})
	}
}

func redirectStatus(c router.Context) int {
	if c.Method() == string(router.GET) {
		return http.StatusFound
	}
	return http.StatusSeeOther
}
