package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"elibrary/internal/service"
	"elibrary/internal/storage"
)

// Routes lists what RegisterRoutes wires. Nil Store or Gatherer leaves the
// file and metrics endpoints out.
type Routes struct {
	// APIPrefix is mounted in front of every API route, e.g. "/api".
	APIPrefix string
	// PublicPrefix is the URL path stored files are served under, e.g. "/uploads".
	PublicPrefix string

	DB       *sql.DB
	Store    storage.Storage
	Gatherer prometheus.Gatherer

	Documents service.DocumentService
	Comments  service.CommentService
	Tags      service.TagService
	Users     service.UserService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, r Routes) {
	app.Get("/health", HealthCheck(r.DB))
	app.Get("/healthz", LivenessProbe())
	if r.Gatherer != nil {
		app.Get("/metrics", Metrics(r.Gatherer))
	}
	if r.Store != nil && r.PublicPrefix != "" {
		app.Get(r.PublicPrefix+"/*", ServeFile(r.Store))
	}

	api := app.Group(r.APIPrefix)

	docs := api.Group("/documents")
	docs.Get("/", ListDocuments(r.Documents))
	docs.Post("/", CreateDocument(r.Documents))
	docs.Post("/upload", UploadDocument(r.Documents))
	// Registered before /:id so "search" is not taken for an id.
	docs.Get("/search", SearchDocuments(r.Documents))
	docs.Get("/:id", GetDocument(r.Documents))
	docs.Delete("/:id", DeleteDocument(r.Documents))
	docs.Get("/:id/comments", ListComments(r.Comments))
	docs.Post("/:id/comments", AddComment(r.Comments))

	tags := api.Group("/tags")
	tags.Get("/", ListTags(r.Tags))
	tags.Post("/", CreateTag(r.Tags))
	tags.Get("/:name", GetTagByName(r.Tags))

	users := api.Group("/users")
	users.Get("/", ListUsers(r.Users))
	users.Post("/register", RegisterUser(r.Users))
	users.Delete("/:id", DeleteUser(r.Users))
}
