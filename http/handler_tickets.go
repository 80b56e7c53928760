package http

import (
	"net/http"
	"strconv"
	"time"

	"parking/entities"

	"github.com/labstack/echo/v4"
)

type plateRequest struct {
	PlateNumber string `json:"plateNumber" validate:"required"`
}

type confirmRequest struct {
	TicketID int64 `json:"ticketId" validate:"required,gt=0"`
}

type checkInResponse struct {
	TicketID    int64  `json:"ticketId"`
	PlateNumber string `json:"plateNumber"`
	CheckInTime string `json:"checkInTime"`
	Status      string `json:"status"`
}

type previewResponse struct {
	TicketID     int64  `json:"ticketId"`
	PlateNumber  string `json:"plateNumber"`
	CheckInTime  string `json:"checkInTime"`
	CheckOutTime string `json:"checkOutTime"`
	TotalPrice   int64  `json:"totalPrice"`
}

type ticketResponse struct {
	TicketID     int64   `json:"ticketId"`
	PlateNumber  string  `json:"plateNumber"`
	CheckInTime  string  `json:"checkInTime"`
	CheckOutTime *string `json:"checkOutTime"`
	TotalPrice   *int64  `json:"totalPrice"`
	Status       string  `json:"status"`
	Currency     string  `json:"currency"`
}

func (h Handler) PostCheckIn(c echo.Context) error {
	var request plateRequest
	if err := bindAndValidate(c, &request); err != nil {
		return err
	}

	ticket, err := h.lifecycle.CheckIn(c.Request().Context(), request.PlateNumber)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, checkInResponse{
		TicketID:    ticket.ID,
		PlateNumber: ticket.PlateNumber,
		CheckInTime: formatTime(ticket.CheckInTime),
		Status:      string(ticket.Status),
	})
}

func (h Handler) PostCheckOutPreview(c echo.Context) error {
	var request plateRequest
	if err := bindAndValidate(c, &request); err != nil {
		return err
	}

	preview, err := h.lifecycle.PreviewCheckOut(c.Request().Context(), request.PlateNumber)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, previewResponse{
		TicketID:     preview.TicketID,
		PlateNumber:  preview.PlateNumber,
		CheckInTime:  formatTime(preview.CheckInTime),
		CheckOutTime: formatTime(preview.CheckOutTime),
		TotalPrice:   preview.TotalPrice,
	})
}

func (h Handler) PostCheckOutConfirm(c echo.Context) error {
	var request confirmRequest
	if err := bindAndValidate(c, &request); err != nil {
		return err
	}

	ticket, err := h.lifecycle.ConfirmCheckOut(c.Request().Context(), request.TicketID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newTicketResponse(ticket, h.lifecycle.Rates().Currency))
}

func (h Handler) GetTicket(c echo.Context) error {
	ticketID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || ticketID <= 0 {
		return entities.NewValidationError("ticket id must be a positive integer")
	}

	ticket, err := h.lifecycle.Ticket(c.Request().Context(), ticketID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newTicketResponse(ticket, h.lifecycle.Rates().Currency))
}

func bindAndValidate(c echo.Context, request any) error {
	if err := c.Bind(request); err != nil {
		return entities.NewValidationError("malformed request body")
	}
	return c.Validate(request)
}

func newTicketResponse(ticket entities.Ticket, currency string) ticketResponse {
	resp := ticketResponse{
		TicketID:    ticket.ID,
		PlateNumber: ticket.PlateNumber,
		CheckInTime: formatTime(ticket.CheckInTime),
		TotalPrice:  ticket.TotalPrice,
		Status:      string(ticket.Status),
		Currency:    currency,
	}
	if ticket.CheckOutTime != nil {
		checkOut := formatTime(*ticket.CheckOutTime)
		resp.CheckOutTime = &checkOut
	}
	return resp
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
