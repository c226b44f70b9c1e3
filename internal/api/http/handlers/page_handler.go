package handlers

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/service"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

const postPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
</head>
<body>
<article>
<h1>{{.Title}}</h1>
<p class="meta">By {{.AuthorEmail}} on {{.Published}}</p>
{{- if .CoverMediaURL}}
{{- if .IsVideo}}
<video src="{{.CoverMediaURL}}" controls></video>
{{- else}}
<img src="{{.CoverMediaURL}}" alt="{{.Title}}">
{{- end}}
{{- if .MediaAttribution}}
<p class="attribution">{{.MediaAttribution}}</p>
{{- end}}
{{- end}}
<div class="body">{{.Body}}</div>
</article>
</body>
</html>
`

var postPage = template.Must(template.New("post").Parse(postPageTemplate))

type postPageView struct {
	Title            string
	AuthorEmail      string
	Published        string
	Body             string
	CoverMediaURL    string
	MediaAttribution string
	IsVideo          bool
}

// PageHandler renders public HTML pages for active posts.
type PageHandler struct {
	posts *service.PostService
}

// NewPageHandler builds the handler.
func NewPageHandler(posts *service.PostService) *PageHandler {
	return &PageHandler{posts: posts}
}

// Show renders the post identified by slug.
func (h *PageHandler) Show(c *fiber.Ctx) error {
	post, err := h.posts.GetActiveBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		var domainErr *apperrors.DomainError
		if errors.As(err, &domainErr) && domainErr.HTTPStatus == http.StatusNotFound {
			return c.Status(fiber.StatusNotFound).SendString("Post not found")
		}
		return err
	}

	c.Type("html", "utf-8")
	return postPage.Execute(c.Response().BodyWriter(), newPostPageView(post))
}

func newPostPageView(post *domain.Post) postPageView {
	view := postPageView{
		Title:       post.Title,
		AuthorEmail: post.AuthorEmail,
		Published:   post.CreatedAt.Format("January 2, 2006"),
		Body:        post.Body,
		IsVideo:     post.MediaType == domain.MediaTypeVideo,
	}
	if post.CoverMediaURL != nil {
		view.CoverMediaURL = *post.CoverMediaURL
	}
	if post.MediaAttribution != nil {
		view.MediaAttribution = *post.MediaAttribution
	}
	return view
}
