package main

import (
	"errors"
	"eventgo/src/middlewares"
	"eventgo/src/models"
	"eventgo/src/types"
	"eventgo/src/utils"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func orderHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/orders", func(ctx *gin.Context) {
			var body types.CreateOrderRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			// Idempotency key for safe purchase retries after timeouts.
			requestId := ctx.GetHeader("X-Request-ID")
			principal := middlewares.GetPrincipal(ctx)
			order, err := utils.PlaceOrder(principal, body.EventID, body.Items, requestId)
			if err != nil {
				var insufficient *types.InsufficientCapacityError
				if errors.As(err, &insufficient) {
					ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
					return
				}
				if errors.Is(err, types.ErrEventNotFound) || errors.Is(err, types.ErrTicketTypeNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
					return
				}
				log.Printf("error placing order: %s", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": order})
		}).
		GET("/orders", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			orders, err := utils.GetUserOrders(userId)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": orders, "count": len(orders)})
		}).
		GET("/orders/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			order, err := utils.GetOrder(userId, params.ID)
			if err != nil {
				if errors.Is(err, types.ErrOrderNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": order})
		}).
		GET("/tickets", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			tickets, err := utils.GetUserTickets(userId)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": tickets, "count": len(tickets)})
		}).
		GET("/tickets/:id", func(ctx *gin.Context) {
			ticket, ok := ownedTicket(ctx)
			if !ok {
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticket})
		})
	return g
}

// ownedTicket loads the ticket in the uri and enforces that the caller owns
// it or is an organizer.
func ownedTicket(ctx *gin.Context) (*models.Ticket, bool) {
	idParam := ctx.Params.ByName("id")
	ticketId, err := uuid.Parse(idParam)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return nil, false
	}
	ticket, err := utils.GetTicket(ticketId)
	if err != nil {
		if errors.Is(err, types.ErrTicketNotFound) {
			ctx.Status(http.StatusNotFound)
			return nil, false
		}
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	principal := middlewares.GetPrincipal(ctx)
	if ticket.UserID != principal.ID && !principal.IsOrganizer() {
		ctx.Status(http.StatusNotFound)
		return nil, false
	}
	return ticket, true
}
