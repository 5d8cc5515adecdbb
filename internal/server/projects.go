package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	projectdomain "github.com/openclub/clubhub/internal/project/domain"
)

type createProjectRequest struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	LeaderID    snowflake.ID `json:"leader_id"`
	OwnerClubID snowflake.ID `json:"owner_club_id"`
}

func (s *Server) CreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	project, err := s.projectSvc.Create(c.Request.Context(), actorOf(c), projectdomain.CreateRequest{
		Name:        req.Name,
		Description: req.Description,
		LeaderID:    req.LeaderID,
		OwnerClubID: req.OwnerClubID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": project})
}

func (s *Server) GetProject(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	project, err := s.projectSvc.Get(c.Request.Context(), actorOf(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": project})
}

type updateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) UpdateProject(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	project, err := s.projectSvc.Update(c.Request.Context(), actorOf(c), id, projectdomain.UpdateRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": project})
}

func (s *Server) CloseProject(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	project, err := s.projectSvc.Close(c.Request.Context(), actorOf(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": project})
}

func (s *Server) ReopenProject(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	project, err := s.projectSvc.Reopen(c.Request.Context(), actorOf(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": project})
}

func (s *Server) ListProjects(c *gin.Context) {
	var query struct {
		ClubID string `form:"club_id"`
		OnlyMy string `form:"only_my"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	clubID, err := parseOptionalID(query.ClubID)
	if err != nil {
		AbortWithError(c, newValidationError("club_id", "invalid_club_id", "invalid club_id"))
		return
	}
	onlyMine, err := parseFlag(query.OnlyMy)
	if err != nil {
		AbortWithError(c, newValidationError("only_my", "invalid_only_my", "invalid only_my"))
		return
	}

	projects, err := s.projectSvc.List(c.Request.Context(), actorOf(c), projectdomain.ListOptions{
		ClubID:   clubID,
		OnlyMine: onlyMine,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": projects})
}
