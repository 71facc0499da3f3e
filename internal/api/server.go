package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	v1 "github.com/shaw8386/server/internal/api/handler/v1"
	"github.com/shaw8386/server/internal/api/middleware"
	"github.com/shaw8386/server/internal/config"
	"github.com/shaw8386/server/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, svc *service.TicketService) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()
	s.MountHandlers(v1.NewTicketHandler(svc))

	return s
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(ticketHandler *v1.TicketHandler) {
	const basePath = "/api/v1"

	tickets := s.Router.Group(basePath)
	{
		tickets.POST("/tickets", ticketHandler.HandleSaveTicket)
		tickets.GET("/tickets", ticketHandler.HandleListTickets)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
}
