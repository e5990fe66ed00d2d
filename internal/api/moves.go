package api

import (
	"net/http"

	"github.com/chesscoach/cpu-engine-backend/internal/coach"
	"github.com/chesscoach/cpu-engine-backend/internal/dao"
	"github.com/chesscoach/cpu-engine-backend/pkg/engine"
	"github.com/gin-gonic/gin"
)

type MoveApi struct {
	Service   *coach.MoveService
	Telemetry dao.TelemetryRepository
}

func NewMoveApi(service *coach.MoveService, telemetry dao.TelemetryRepository) *MoveApi {
	return &MoveApi{
		Service:   service,
		Telemetry: telemetry,
	}
}

func (m *MoveApi) Move(ctx *gin.Context) {
	var req coach.MoveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"errorCode": engine.CodeInvalidPosition,
			"message":   err.Error(),
		})
		return
	}

	resp, err := m.Service.ComputeMove(ctx.Request.Context(), req)
	if err != nil {
		code, _ := engine.Classify(err)
		ctx.JSON(statusForCode(code), gin.H{
			"success":   false,
			"errorCode": code,
			"message":   err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func (m *MoveApi) Levels(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"levels": engine.Profiles(),
	})
}

func (m *MoveApi) GameTelemetry(ctx *gin.Context) {
	if m.Telemetry == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "telemetry storage is not configured",
		})
		return
	}
	gameID := ctx.Param("game_id")
	records, err := m.Telemetry.GetGameRecords(gameID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"game_id": gameID,
		"records": records,
	})
}

func Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func statusForCode(code string) int {
	switch code {
	case engine.CodeInvalidPosition:
		return http.StatusBadRequest
	case engine.CodeRemoteUnauthorized:
		return http.StatusBadGateway
	default:
		return http.StatusServiceUnavailable
	}
}
