package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"iticket-storefront/internal/api"
	"iticket-storefront/internal/config"
	"iticket-storefront/internal/handlers"
	"iticket-storefront/internal/middleware"
	"iticket-storefront/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store := session.NewStore(session.NewFileStorage(cfg.Session.StateDir))
	if err := store.Initialize(); err != nil {
		// A broken state file degrades to signed-out, never to a crash
		log.Printf("Session initialization: %v", err)
	}

	client := api.New(api.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, store)
	client.OnAuthFailure(func() {
		log.Println("Session expired, cleared stored credentials")
	})

	cookieStore := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   cfg.Server.Env == "production",
	}

	renderer, err := handlers.NewRenderer(store)
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}
	flash := handlers.NewFlash(cookieStore)

	authHandler := handlers.NewAuthHandler(client, store, renderer, flash)
	eventsHandler := handlers.NewEventsHandler(client, renderer, flash)
	cartHandler := handlers.NewCartHandler(client, renderer, flash)
	checkoutHandler := handlers.NewCheckoutHandler(client, renderer, flash)
	ordersHandler := handlers.NewOrdersHandler(client, renderer, flash)
	favoritesHandler := handlers.NewFavoritesHandler(client, renderer, flash)
	notificationsHandler := handlers.NewNotificationsHandler(client, renderer, flash)

	guard := middleware.NewGuard(store)
	badge := middleware.NewCartBadge(client, store)

	r := chi.NewRouter()
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.RecoveryMiddleware)
	r.Use(badge.Refresh)

	// Public pages
	r.Get("/", eventsHandler.Home)
	r.Get("/events/{id}", eventsHandler.Details)
	r.Get("/login", authHandler.LoginPage)
	r.Post("/login", authHandler.Login)
	r.Get("/register", authHandler.RegisterPage)
	r.Post("/register", authHandler.Register)
	r.Post("/logout", authHandler.Logout)

	// Authenticated pages
	r.Group(func(r chi.Router) {
		r.Use(guard.RequireAuth)

		r.Get("/cart", cartHandler.View)
		r.Post("/cart/items", cartHandler.AddItem)
		r.Post("/cart/items/{id}", cartHandler.UpdateItem)
		r.Get("/cart/items/{id}/remove", cartHandler.ConfirmRemove)
		r.Post("/cart/items/{id}/remove", cartHandler.RemoveItem)
		r.Post("/cart/clear", cartHandler.Clear)

		r.Get("/checkout", checkoutHandler.Page)
		r.Post("/checkout/promo", checkoutHandler.CheckPromo)
		r.Post("/checkout/pay", checkoutHandler.Pay)

		r.Get("/orders", ordersHandler.List)
		r.Get("/orders/{id}", ordersHandler.Details)

		r.Get("/favorites", favoritesHandler.List)
		r.Post("/favorites/{eventId}", favoritesHandler.Add)
		r.Post("/favorites/{eventId}/remove", favoritesHandler.Remove)

		r.Get("/notifications", notificationsHandler.List)
	})

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting storefront on http://%s (API %s)", addr, cfg.API.BaseURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown: %v", err)
	}
}
