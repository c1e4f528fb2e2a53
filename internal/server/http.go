package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"feedback-service/internal/auth"
	"feedback-service/internal/biz"
	"feedback-service/internal/conf"
	"feedback-service/internal/service"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

const maxUploadBytes = 8 << 20

// NewHTTPServer new an HTTP server.
func NewHTTPServer(
	c *conf.Server,
	ac *conf.Assets,
	business *service.BusinessService,
	template *service.TemplateService,
	feedback *service.FeedbackService,
	authSvc *service.AuthService,
	assets *service.AssetService,
	tokens *auth.TokenManager,
	logger log.Logger,
) *khttp.Server {
	var opts = []khttp.ServerOption{
		khttp.Middleware(
			recovery.Recovery(),
		),
	}
	if c.Http.Network != "" {
		opts = append(opts, khttp.Network(c.Http.Network))
	}
	if c.Http.Addr != "" {
		opts = append(opts, khttp.Address(c.Http.Addr))
	}
	if c.Http.Timeout != nil {
		opts = append(opts, khttp.Timeout(c.Http.Timeout.AsDuration()))
	}
	srv := khttp.NewServer(opts...)

	if ac != nil && ac.Dir != "" {
		srv.HandlePrefix("/assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(ac.Dir))))
	}

	r := srv.Route("/v1")

	// Public landing resolution: slug -> business + mood scale.
	r.GET("/businesses/{slug}", func(ctx khttp.Context) error {
		reply, err := feedback.Landing(ctx, pathVar(ctx, "slug"))
		if err != nil {
			return writeError(ctx, err)
		}
		return writeJSON(ctx, reply)
	})

	// Review-ready view: slug + mood signal (level or name) -> suggestion.
	r.GET("/businesses/{slug}/review/{mood}", func(ctx khttp.Context) error {
		reply, err := feedback.Suggest(ctx, pathVar(ctx, "slug"), pathVar(ctx, "mood"))
		if err != nil {
			return writeError(ctx, err)
		}
		return writeJSON(ctx, reply)
	})

	r.GET("/niches", func(ctx khttp.Context) error {
		niches, err := template.ListNiches(ctx)
		if err != nil {
			return writeError(ctx, err)
		}
		return writeJSON(ctx, map[string]any{"niches": niches})
	})

	r.POST("/auth/login", func(ctx khttp.Context) error {
		var req service.LoginRequest
		if err := json.NewDecoder(ctx.Request().Body).Decode(&req); err != nil {
			return writeError(ctx, errors.BadRequest("BAD_REQUEST", "invalid body"))
		}
		reply, err := authSvc.Login(&req)
		if err != nil {
			return writeError(ctx, err)
		}
		return writeJSON(ctx, reply)
	})

	r.GET("/auth/session", func(ctx khttp.Context) error {
		sess := sessionFrom(tokens, ctx)
		if sess == nil {
			return writeError(ctx, biz.ErrAuthRequired)
		}
		return writeJSON(ctx, authSvc.Session(sess))
	})

	r.GET("/admin/businesses", func(ctx khttp.Context) error {
		if sess := sessionFrom(tokens, ctx); sess == nil {
			return writeError(ctx, biz.ErrAuthRequired)
		}
		q := ctx.Request().URL.Query()
		page, _ := strconv.ParseInt(q.Get("page"), 10, 32)
		size, _ := strconv.ParseInt(q.Get("page_size"), 10, 32)
		reply, err := business.List(ctx, int32(page), int32(size), q.Get("q"))
		if err != nil {
			return writeError(ctx, err)
		}
		return writeJSON(ctx, reply)
	})

	r.GET("/admin/businesses/{id}", func(ctx khttp.Context) error {
		if sess := sessionFrom(tokens, ctx); sess == nil {
			return writeError(ctx, biz.ErrAuthRequired)
		}
		id, _ := strconv.ParseInt(pathVar(ctx, "id"), 10, 64)
		reply, err := business.Get(ctx, id)
		if err != nil {
			return writeError(ctx, err)
		}
		return writeJSON(ctx, reply)
	})

	r.POST("/admin/businesses", func(ctx khttp.Context) error {
		sess := sessionFrom(tokens, ctx)
		var req service.BusinessPayload
		if err := json.NewDecoder(ctx.Request().Body).Decode(&req); err != nil {
			return writeError(ctx, errors.BadRequest("BAD_REQUEST", "invalid body"))
		}
		reply, err := business.Create(ctx, sess, &req)
		if err != nil {
			return writeError(ctx, err)
		}
		return writeJSON(ctx, reply)
	})

	r.PUT("/admin/businesses/{id}", func(ctx khttp.Context) error {
		sess := sessionFrom(tokens, ctx)
		id, _ := strconv.ParseInt(pathVar(ctx, "id"), 10, 64)
		var req service.BusinessPayload
		if err := json.NewDecoder(ctx.Request().Body).Decode(&req); err != nil {
			return writeError(ctx, errors.BadRequest("BAD_REQUEST", "invalid body"))
		}
		reply, err := business.Update(ctx, sess, id, &req)
		if err != nil {
			return writeError(ctx, err)
		}
		return writeJSON(ctx, reply)
	})

	r.DELETE("/admin/businesses/{id}", func(ctx khttp.Context) error {
		sess := sessionFrom(tokens, ctx)
		id, _ := strconv.ParseInt(pathVar(ctx, "id"), 10, 64)
		if err := business.Delete(ctx, sess, id); err != nil {
			return writeError(ctx, err)
		}
		return writeJSON(ctx, map[string]bool{"ok": true})
	})

	r.GET("/admin/templates", func(ctx khttp.Context) error {
		if sess := sessionFrom(tokens, ctx); sess == nil {
			return writeError(ctx, biz.ErrAuthRequired)
		}
		items, err := template.List(ctx)
		if err != nil {
			return writeError(ctx, err)
		}
		return writeJSON(ctx, map[string]any{"templates": items})
	})

	r.POST("/admin/templates", func(ctx khttp.Context) error {
		sess := sessionFrom(tokens, ctx)
		var req service.TemplatePayload
		if err := json.NewDecoder(ctx.Request().Body).Decode(&req); err != nil {
			return writeError(ctx, errors.BadRequest("BAD_REQUEST", "invalid body"))
		}
		reply, err := template.Create(ctx, sess, &req)
		if err != nil {
			return writeError(ctx, err)
		}
		return writeJSON(ctx, reply)
	})

	r.PUT("/admin/templates/{id}", func(ctx khttp.Context) error {
		sess := sessionFrom(tokens, ctx)
		id, _ := strconv.ParseInt(pathVar(ctx, "id"), 10, 64)
		var req service.TemplatePayload
		if err := json.NewDecoder(ctx.Request().Body).Decode(&req); err != nil {
			return writeError(ctx, errors.BadRequest("BAD_REQUEST", "invalid body"))
		}
		reply, err := template.Update(ctx, sess, id, &req)
		if err != nil {
			return writeError(ctx, err)
		}
		return writeJSON(ctx, reply)
	})

	r.DELETE("/admin/templates/{id}", func(ctx khttp.Context) error {
		sess := sessionFrom(tokens, ctx)
		id, _ := strconv.ParseInt(pathVar(ctx, "id"), 10, 64)
		if err := template.Delete(ctx, sess, id); err != nil {
			return writeError(ctx, err)
		}
		return writeJSON(ctx, map[string]bool{"ok": true})
	})

	r.POST("/assets", func(ctx khttp.Context) error {
		sess := sessionFrom(tokens, ctx)
		req := ctx.Request()
		if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
			return writeError(ctx, errors.BadRequest("BAD_REQUEST", "invalid multipart form"))
		}
		file, header, err := req.FormFile("file")
		if err != nil {
			return writeError(ctx, errors.BadRequest("BAD_REQUEST", "file field is required"))
		}
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			return writeError(ctx, biz.ErrUploadFailed)
		}
		reply, err := assets.Upload(ctx, sess, req.FormValue("folder"), header.Filename, data)
		if err != nil {
			return writeError(ctx, err)
		}
		return writeJSON(ctx, reply)
	})

	return srv
}

func pathVar(ctx khttp.Context, name string) string {
	vs := ctx.Vars()[name]
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// sessionFrom verifies the bearer token, if any, and returns the proven
// session. Handlers pass the result straight into the usecases so
// authorization stays an explicit argument instead of ambient state.
func sessionFrom(tokens *auth.TokenManager, ctx khttp.Context) *biz.Session {
	h := ctx.Request().Header.Get("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || token == "" {
		return nil
	}
	sess, err := tokens.Verify(token)
	if err != nil {
		return nil
	}
	return sess
}

func writeJSON(ctx khttp.Context, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ctx.Response().Header().Set("Content-Type", "application/json")
	_, _ = ctx.Response().Write(b)
	return nil
}

func writeError(ctx khttp.Context, err error) error {
	se := errors.FromError(err)
	code := int(se.Code)
	if code < 100 || code > 599 {
		code = http.StatusInternalServerError
	}
	ctx.Response().Header().Set("Content-Type", "application/json")
	ctx.Response().WriteHeader(code)
	b, _ := json.Marshal(map[string]string{"error": se.Message, "reason": se.Reason})
	_, _ = ctx.Response().Write(b)
	return nil
}
