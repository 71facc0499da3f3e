package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shaw8386/server/internal/api/handler/v1/request"
	"github.com/shaw8386/server/internal/api/handler/v1/response"
	"github.com/shaw8386/server/internal/domain"
	"github.com/shaw8386/server/internal/service"
)

type TicketService interface {
	RegisterTicket(ctx context.Context, ticket domain.Ticket, waitForResult bool) (service.RegistrationResult, error)
	ListTickets(ctx context.Context, token string) ([]domain.Ticket, error)
}

type TicketHandler struct {
	svc TicketService
}

func NewTicketHandler(svc TicketService) *TicketHandler {
	return &TicketHandler{
		svc: svc,
	}
}

// HandleSaveTicket godoc
// @Summary      Register a lottery ticket for a deferred result check
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        request   body      request.SaveTicketRequest true "request body"
// @Success      201      {object}   response.SaveTicketResponse
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /tickets [post]
func (h *TicketHandler) HandleSaveTicket(ctx *gin.Context) {
	var req request.SaveTicketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	region, ok := domain.ParseRegion(req.Region)
	if !ok {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid region")))
		return
	}

	result, err := h.svc.RegisterTicket(ctx.Request.Context(), domain.Ticket{
		Number:            req.Number,
		Region:            region,
		Station:           req.Station,
		Label:             req.Label,
		NotificationToken: req.Token,
		BuyDate:           req.BuyDate,
	}, req.WaitForResult)
	if err != nil {
		if errors.Is(err, service.ErrUnknownRegion) || errors.Is(err, service.ErrInvalidRegion) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleSaveTicket -> h.svc.RegisterTicket -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	resp := response.SaveTicketResponse{
		Success: true,
		Mode:    result.Mode,
	}
	if result.Verdict != nil {
		resp.Result = service.VerdictMessage(*result.Verdict)
	} else {
		resp.ScheduledTime = result.Ticket.ScheduledTime.Format("2006-01-02 15:04:05")
		resp.Message = "Vé chưa xổ, đã đặt lịch"
	}

	ctx.JSON(http.StatusCreated, resp)
}

// HandleListTickets godoc
// @Summary      List tickets registered for a notification token
// @Tags         tickets
// @Produce      json
// @Param        token    query      string true "notification token"
// @Success      200      {object}   response.ListTicketsResponse
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /tickets [get]
func (h *TicketHandler) HandleListTickets(ctx *gin.Context) {
	token := ctx.Query("token")
	if token == "" {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("token is required")))
		return
	}

	tickets, err := h.svc.ListTickets(ctx.Request.Context(), token)
	if err != nil {
		err = fmt.Errorf("v1.HandleListTickets -> h.svc.ListTickets -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.ListTicketsResponse{
		Tickets: tickets,
	})
}
