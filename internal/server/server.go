// Package server exposes the HTTP surface: authentication, clubs, membership
// requests, channels, posts, conversations, projects and feedback.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/openclub/clubhub/internal/auth"
	authdomain "github.com/openclub/clubhub/internal/auth/domain"
	"github.com/openclub/clubhub/internal/authorization"
	"github.com/openclub/clubhub/internal/channel"
	channeldomain "github.com/openclub/clubhub/internal/channel/domain"
	"github.com/openclub/clubhub/internal/club"
	clubdomain "github.com/openclub/clubhub/internal/club/domain"
	"github.com/openclub/clubhub/internal/config"
	"github.com/openclub/clubhub/internal/conversation"
	conversationdomain "github.com/openclub/clubhub/internal/conversation/domain"
	"github.com/openclub/clubhub/internal/enrollment"
	enrollmentdomain "github.com/openclub/clubhub/internal/enrollment/domain"
	"github.com/openclub/clubhub/internal/feedback"
	feedbackdomain "github.com/openclub/clubhub/internal/feedback/domain"
	"github.com/openclub/clubhub/internal/post"
	postdomain "github.com/openclub/clubhub/internal/post/domain"
	"github.com/openclub/clubhub/internal/project"
	projectdomain "github.com/openclub/clubhub/internal/project/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewHTTPMetrics),
	authorization.Module,
	auth.Module,
	club.Module,
	enrollment.Module,
	channel.Module,
	post.Module,
	conversation.Module,
	project.Module,
	feedback.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, metrics *HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(MetricsMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	log             *zap.Logger
	genID           *snowflake.Node
	authSvc         authdomain.Service
	clubSvc         clubdomain.Service
	enrollmentSvc   enrollmentdomain.Service
	channelSvc      channeldomain.Service
	postSvc         postdomain.Service
	conversationSvc conversationdomain.Service
	projectSvc      projectdomain.Service
	feedbackSvc     feedbackdomain.Service
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	Log             *zap.Logger
	GenID           *snowflake.Node
	AuthSvc         authdomain.Service
	ClubSvc         clubdomain.Service
	EnrollmentSvc   enrollmentdomain.Service
	ChannelSvc      channeldomain.Service
	PostSvc         postdomain.Service
	ConversationSvc conversationdomain.Service
	ProjectSvc      projectdomain.Service
	FeedbackSvc     feedbackdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		log:             p.Log.Named("server"),
		genID:           p.GenID,
		authSvc:         p.AuthSvc,
		clubSvc:         p.ClubSvc,
		enrollmentSvc:   p.EnrollmentSvc,
		channelSvc:      p.ChannelSvc,
		postSvc:         p.PostSvc,
		conversationSvc: p.ConversationSvc,
		projectSvc:      p.ProjectSvc,
		feedbackSvc:     p.FeedbackSvc,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/signup", s.Signup)
	auth.POST("/login", s.Login)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.AuthRequired())

	// -------- Clubs --------
	api.GET("/clubs", s.ListClubs)
	api.POST("/clubs", s.CreateClub)
	api.GET("/clubs/:id", s.GetClub)
	api.PATCH("/clubs/:id", s.UpdateClub)
	api.DELETE("/clubs/:id", s.DeleteClub)

	// -------- Membership requests --------
	api.GET("/requests", s.ListRequests)
	api.POST("/requests", s.CreateRequest)
	api.GET("/requests/:id", s.GetRequest)
	api.POST("/requests/:id/accept", s.AcceptRequest)
	api.POST("/requests/:id/reject", s.RejectRequest)
	api.POST("/requests/:id/cancel", s.CancelRequest)

	// -------- Roles --------
	api.GET("/roles", s.ListRoles)
	api.POST("/roles", s.CreateRole)
	api.GET("/roles/:id", s.GetRole)
	api.PATCH("/roles/:id", s.UpdateRole)
	api.DELETE("/roles/:id", s.DeleteRole)

	// -------- Memberships --------
	api.GET("/memberships", s.ListMemberships)
	api.POST("/memberships", s.CreateMembership)
	api.GET("/memberships/:id", s.GetMembership)
	api.PATCH("/memberships/:id", s.UpdateMembership)
	api.DELETE("/memberships/:id", s.DeleteMembership)

	// -------- Channels --------
	api.GET("/channels", s.ListChannels)
	api.GET("/channels/:id", s.GetChannel)
	api.PATCH("/channels/:id", s.UpdateChannel)
	api.POST("/channels/:id/subscribe", s.SubscribeChannel)
	api.POST("/channels/:id/unsubscribe", s.UnsubscribeChannel)
	api.GET("/channels/:id/subscribers", s.ListChannelSubscribers)

	// -------- Posts --------
	api.GET("/posts", s.ListPosts)
	api.POST("/posts", s.CreatePost)
	api.GET("/posts/:id", s.GetPost)
	api.PATCH("/posts/:id", s.UpdatePost)
	api.DELETE("/posts/:id", s.DeletePost)

	// -------- Conversations --------
	api.GET("/conversations", s.ListConversations)
	api.POST("/conversations", s.CreateConversation)
	api.GET("/conversations/:id", s.GetConversation)

	// -------- Projects --------
	api.GET("/projects", s.ListProjects)
	api.POST("/projects", s.CreateProject)
	api.GET("/projects/:id", s.GetProject)
	api.PATCH("/projects/:id", s.UpdateProject)
	api.POST("/projects/:id/close", s.CloseProject)
	api.POST("/projects/:id/reopen", s.ReopenProject)

	// -------- Project memberships --------
	api.GET("/project-memberships", s.ListProjectMemberships)
	api.POST("/project-memberships", s.CreateProjectMembership)
	api.GET("/project-memberships/:id", s.GetProjectMembership)
	api.DELETE("/project-memberships/:id", s.DeleteProjectMembership)

	// -------- Feedback --------
	api.GET("/feedbacks", s.ListFeedbacks)
	api.POST("/feedbacks", s.CreateFeedback)
	api.GET("/feedbacks/:id", s.GetFeedback)
	api.GET("/feedback-replies", s.ListFeedbackReplies)
	api.POST("/feedback-replies", s.CreateFeedbackReply)
	api.GET("/feedback-replies/:id", s.GetFeedbackReply)
}
