package main

import (
	"eventgo/src/middlewares"
	"eventgo/src/types"
	"eventgo/src/utils"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"

	"github.com/gin-gonic/gin"
)

func admissionHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/admissions", middlewares.RequireOrganizer, func(ctx *gin.Context) {
			var body types.CreateAdmissionRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			principal := middlewares.GetPrincipal(ctx)
			result, err := utils.RedeemTicket(principal, body.Code)
			if err != nil {
				// Rejections come back as results; an error here means the
				// ledger itself is unavailable.
				log.Printf("Error on Ticket admission: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
				return
			}
			status := http.StatusOK
			if result.Outcome == types.REDEMPTION_REJECTED {
				status = http.StatusUnprocessableEntity
			}
			ctx.JSON(status, gin.H{"data": result})
		})
	return g
}

func ticketCodeHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/tickets/:id/code", func(ctx *gin.Context) {
			ticket, ok := ownedTicket(ctx)
			if !ok {
				return
			}
			code, err := utils.EncodeTicketCode(ticket)
			if err != nil {
				log.Printf("Error encoding code for Ticket [%s]: %s\n", ticket.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"code": code})
		}).
		GET("/tickets/:id/code.png", func(ctx *gin.Context) {
			ticket, ok := ownedTicket(ctx)
			if !ok {
				return
			}
			code, err := utils.EncodeTicketCode(ticket)
			if err != nil {
				log.Printf("Error encoding code for Ticket [%s]: %s\n", ticket.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
				return
			}
			tempdir := os.Getenv("TEMP_DIR")
			filepath := path.Join(tempdir, fmt.Sprintf("ticketcode_%s.png", ticket.ID))
			if err := utils.TicketCodeImage(code, filepath); err != nil {
				log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
				return
			}
			ctx.FileAttachment(filepath, "eticket.png")
		})
	return g
}
