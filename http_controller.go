package storefront

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"
)

// RegisterStorefrontRoutes mounts the auth surface of the storefront client:
// sign-in, sign-out, and password reset, all backed by the identity
// provider. Storefront CRUD pages live outside this package.
func RegisterStorefrontRoutes[T any](app router.Router[T], opts ...StorefrontControllerOption) {
	controller := NewStorefrontController(opts...)

	app.
		Get(controller.Routes.Auth, controller.AuthShow).
		SetName("auth.get")

	app.
		Post(controller.Routes.Auth, controller.SignInPost).
		SetName("auth.post")

	app.Get(controller.Routes.SignOut, controller.SignOutGet).SetName("sign-out.get")

	app.Post(controller.Routes.PasswordReset, controller.PasswordResetPost).
		SetName("pwd-reset.post")

	app.Post(controller.Routes.UpdatePassword, controller.UpdatePasswordPost).
		SetName("pwd-update.post")
}

type StorefrontControllerRoutes struct {
	Auth           string
	SignOut        string
	PasswordReset  string
	UpdatePassword string
}

type StorefrontControllerViews struct {
	Auth          string
	PasswordReset string
}

// StorefrontController handles the identity-facing routes. All provider
// failures surface as inline view errors, never as unhandled rejections.
type StorefrontController struct {
	Logger       Logger
	Client       IdentityClient
	Manager      *SessionManager
	Gate         *RouteGate
	Routes       *StorefrontControllerRoutes
	Views        *StorefrontControllerViews
	ErrorHandler router.ErrorHandler
}

type StorefrontControllerOption func(*StorefrontController) *StorefrontController

// WithControllerClient sets the identity client.
func WithControllerClient(client IdentityClient) StorefrontControllerOption {
	return func(c *StorefrontController) *StorefrontController {
		c.Client = client
		return c
	}
}

// WithControllerManager sets the session manager.
func WithControllerManager(manager *SessionManager) StorefrontControllerOption {
	return func(c *StorefrontController) *StorefrontController {
		c.Manager = manager
		return c
	}
}

// WithControllerGate sets the route gate used for redirect bookkeeping.
func WithControllerGate(gate *RouteGate) StorefrontControllerOption {
	return func(c *StorefrontController) *StorefrontController {
		c.Gate = gate
		return c
	}
}

// WithControllerLogger sets the controller logger.
func WithControllerLogger(logger Logger) StorefrontControllerOption {
	return func(c *StorefrontController) *StorefrontController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func NewStorefrontController(opts ...StorefrontControllerOption) *StorefrontController {
	c := &StorefrontController{
		Logger: defLogger{},
		Routes: &StorefrontControllerRoutes{
			Auth:           AuthPath,
			SignOut:        "/sign-out",
			PasswordReset:  "/reset-password-request",
			UpdatePassword: "/update-password",
		},
		Views: &StorefrontControllerViews{
			Auth:          "auth",
			PasswordReset: "password_reset",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Client == nil {
		panic("Missing IdentityClient in storefront controller...")
	}

	if c.Manager == nil {
		panic("Missing SessionManager in storefront controller...")
	}

	return c
}

func (a *StorefrontController) AuthShow(ctx router.Context) error {
	return ctx.Render(a.Views.Auth, router.ViewContext{
		"errors": nil,
		"record": nil,
	})
}

// SignInRequest payload
type SignInRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r SignInRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *StorefrontController) SignInPost(ctx router.Context) error {
	payload := new(SignInRequest)
	errors := map[string]string{}

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("sign in parse payload", "error", err)
		return a.handleError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.Render(a.Views.Auth, router.ViewContext{
			"record":     payload,
			"validation": err.Error(),
		})
	}

	if _, err := a.Client.SignIn(ctx.Context(), payload.Email, payload.Password); err != nil {
		a.Logger.Warn("sign in rejected", "email", payload.Email, "error", err)
		errors["authentication"] = "Authentication Error"
		return ctx.Render(a.Views.Auth, router.ViewContext{
			"errors": errors,
			"record": payload,
		})
	}

	redirect := a.Manager.CurrentIdentity()
	target := SiteRoot
	if a.Gate != nil {
		target = a.Gate.GetRedirectOrDefault(ctx)
	}
	if redirect.IsCreator {
		target = CreatorRoot
	}

	return ctx.Redirect(target, router.StatusSeeOther)
}

func (a *StorefrontController) SignOutGet(ctx router.Context) error {
	a.Manager.SignOut(ctx.Context())
	return ctx.Redirect(SiteRoot, router.StatusTemporaryRedirect)
}

// PasswordResetRequestPayload is the form payload
type PasswordResetRequestPayload struct {
	Email string `form:"email" json:"email"`
}

// Validate will validate the payload
func (r PasswordResetRequestPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
	)
}

func (a *StorefrontController) PasswordResetPost(ctx router.Context) error {
	payload := new(PasswordResetRequestPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("password reset parse payload", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(http.StatusBadRequest).Render(a.Views.PasswordReset, router.ViewContext{
			"errors": map[string]string{"form": "Failed to parse form"},
			"record": payload,
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("password reset validate payload", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error validating payload",
		}).Render(a.Views.PasswordReset, router.ViewContext{
			"record":     payload,
			"validation": err.Error(),
		})
	}

	if err := a.Client.RequestPasswordReset(ctx.Context(), payload.Email, ResetPasswordPath); err != nil {
		// Same response as success: reset requests never leak whether an
		// account exists.
		a.Logger.Warn("password reset request failed", "error", err)
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "If the address exists, a reset link is on its way",
	}).Render(a.Views.PasswordReset, router.ViewContext{
		"record": payload,
	})
}

// UpdatePasswordPayload is the form payload
type UpdatePasswordPayload struct {
	Password string `form:"password" json:"password"`
}

// Validate will validate the payload
func (r UpdatePasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(8, 0),
		),
	)
}

func (a *StorefrontController) UpdatePasswordPost(ctx router.Context) error {
	if snapshot := a.Manager.CurrentIdentity(); snapshot.Session == nil {
		return ctx.Redirect(AuthPath, router.StatusSeeOther)
	}

	payload := new(UpdatePasswordPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("update password parse payload", "error", err)
		return a.handleError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.Render(a.Views.PasswordReset, router.ViewContext{
			"record":     payload,
			"validation": err.Error(),
		})
	}

	if err := a.Client.UpdatePassword(ctx.Context(), payload.Password); err != nil {
		a.Logger.Error("update password failed", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error updating password",
		}).Render(a.Views.PasswordReset, router.ViewContext{
			"record": payload,
		})
	}

	return ctx.Redirect(SiteRoot, router.StatusSeeOther)
}

func (a *StorefrontController) handleError(ctx router.Context, err error) error {
	if a.ErrorHandler != nil {
		return a.ErrorHandler(ctx, err)
	}
	return ctx.Status(http.StatusBadRequest).Render("errors/400", router.ViewContext{
		"error": err.Error(),
	})
}
