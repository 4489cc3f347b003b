package rnfi

import (
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	maxNameLength    = 100
	maxEmailLength   = 254
	maxMessageLength = 5000
)

type contactRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Message   string `json:"message"`
}

func (r *contactRequest) trim() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.Message = strings.TrimSpace(r.Message)
}

// validate returns the client-facing error message, or "".
func (r contactRequest) validate() string {
	if r.FirstName == "" || r.LastName == "" || r.Email == "" || r.Message == "" {
		return "All fields are required"
	}
	if utf8.RuneCountInString(r.FirstName) > maxNameLength ||
		utf8.RuneCountInString(r.LastName) > maxNameLength ||
		len(r.Email) > maxEmailLength ||
		utf8.RuneCountInString(r.Message) > maxMessageLength {
		return "Input too long"
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return "Invalid email address"
	}
	return ""
}

func (a *App) handleContact(c echo.Context) error {
	ip := c.RealIP()
	if !a.contactLimiter.Check(ip) {
		a.Metrics.contactMessages.WithLabelValues("rate_limited").Inc()
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "Too many messages. Please try again later."})
	}

	var req contactRequest
	if err := c.Bind(&req); err != nil {
		a.Metrics.contactMessages.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	req.trim()
	if msg := req.validate(); msg != "" {
		a.Metrics.contactMessages.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}

	// Check and reserve the slot under one lock.
	if !a.contactLimiter.Allow(ip) {
		a.Metrics.contactMessages.WithLabelValues("rate_limited").Inc()
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "Too many messages. Please try again later."})
	}

	m := ContactMessage{
		ID:        uuid.NewString(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Message:   req.Message,
		RemoteIP:  ip,
		CreatedAt: a.now().UTC(),
	}
	if err := a.Inbox.Save(c.Request().Context(), m); err != nil {
		a.contactLimiter.Release(ip)
		a.Metrics.contactMessages.WithLabelValues("error").Inc()
		a.Logger.Error("save contact message", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to send message"})
	}
	a.Metrics.contactMessages.WithLabelValues("stored").Inc()
	a.Logger.Info("contact message stored", "id", m.ID)
	return c.JSON(http.StatusOK, map[string]string{"message": "Message sent successfully"})
}
