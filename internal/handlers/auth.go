package handlers

import (
	"log"
	"net/http"

	"iticket-storefront/internal/api"
	"iticket-storefront/internal/models"
	"iticket-storefront/internal/session"

	"github.com/go-playground/validator/v10"
)

// AuthHandler serves the login and register pages and owns the only
// code paths that mutate the session store besides the 401 handler.
type AuthHandler struct {
	api      *api.Client
	session  *session.Store
	renderer *Renderer
	flash    *Flash
	validate *validator.Validate
}

// NewAuthHandler creates the authentication handler.
func NewAuthHandler(client *api.Client, store *session.Store, renderer *Renderer, flash *Flash) *AuthHandler {
	return &AuthHandler{
		api:      client,
		session:  store,
		renderer: renderer,
		flash:    flash,
		validate: validator.New(),
	}
}

type loginPageData struct {
	Email      string
	FormError  string
	ReturnPath string
}

type registerPageData struct {
	FullName  string
	Email     string
	FormError string
}

// LoginPage renders the login form. Already-authenticated users go home.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.session.IsAuthenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "login.html", PageData{
		Title:   "Sign In",
		Flashes: h.flash.Pop(w, r),
		Data:    loginPageData{ReturnPath: safeReturnPath(r.URL.Query().Get("redirect"))},
	})
}

// Login handles the login form post.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	req := models.LoginRequest{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}
	returnPath := safeReturnPath(r.FormValue("redirect"))

	if err := h.validate.Struct(req); err != nil {
		h.renderLoginError(w, r, req.Email, returnPath, "Enter a valid email address and a password of at least 6 characters.")
		return
	}

	resp, err := h.api.Login(r.Context(), req)
	if err != nil {
		h.renderLoginError(w, r, req.Email, returnPath, loginFailureMessage(err))
		return
	}

	if err := h.session.SetToken(resp.Access, nil); err != nil {
		log.Printf("login: failed to persist session: %v", err)
		h.renderLoginError(w, r, req.Email, returnPath, "Signed in, but the session could not be saved. Please try again.")
		return
	}

	http.Redirect(w, r, returnPath, http.StatusSeeOther)
}

func loginFailureMessage(err error) string {
	if api.IsUnauthorized(err) {
		return "Invalid email or password."
	}
	return api.UserMessage(err)
}

func (h *AuthHandler) renderLoginError(w http.ResponseWriter, r *http.Request, email, returnPath, message string) {
	h.renderer.Render(w, r, http.StatusUnprocessableEntity, "login.html", PageData{
		Title: "Sign In",
		Data: loginPageData{
			Email:      email,
			FormError:  message,
			ReturnPath: returnPath,
		},
	})
}

// RegisterPage renders the registration form.
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if h.session.IsAuthenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "register.html", PageData{
		Title:   "Create Account",
		Flashes: h.flash.Pop(w, r),
		Data:    registerPageData{},
	})
}

// Register handles the registration form post and sends the new user to
// the login page.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	req := models.RegisterRequest{
		FullName: r.FormValue("fullName"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}

	if err := h.validate.Struct(req); err != nil {
		h.renderer.Render(w, r, http.StatusUnprocessableEntity, "register.html", PageData{
			Title: "Create Account",
			Data: registerPageData{
				FullName:  req.FullName,
				Email:     req.Email,
				FormError: "Fill in your name, a valid email address and a password of at least 6 characters.",
			},
		})
		return
	}

	if err := h.api.Register(r.Context(), req); err != nil {
		h.renderer.Render(w, r, http.StatusUnprocessableEntity, "register.html", PageData{
			Title: "Create Account",
			Data: registerPageData{
				FullName:  req.FullName,
				Email:     req.Email,
				FormError: api.UserMessage(err),
			},
		})
		return
	}

	h.flash.Success(w, r, "Account created. Sign in to continue.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Logout clears the session. Idempotent: logging out twice is fine.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Clear(); err != nil {
		log.Printf("logout: failed to clear session: %v", err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
