// Package handler は match フィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"forecast_backend/internal/api"
	"forecast_backend/internal/feature/match/domain"
	"forecast_backend/internal/feature/match/domain/entity"
	"forecast_backend/internal/feature/match/transport/http/dto"
)

// MatchUsecase は試合結果推定のユースケースインターフェースです。
type MatchUsecase interface {
	Estimate(ctx context.Context, league, match string) (*entity.Estimate, error)
	Leagues() []entity.League
	Fixtures(code string) ([]string, error)
}

// MatchHandler は試合結果推定APIのHTTPリクエストを処理します。
type MatchHandler struct {
	uc MatchUsecase
}

// NewMatchHandler は MatchHandler を生成します。
func NewMatchHandler(uc MatchUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

// ListLeagues はリーグ一覧を返します。
//
// GET /v1/leagues
func (h *MatchHandler) ListLeagues(c *gin.Context) {
	leagues := h.uc.Leagues()
	out := dto.LeaguesResponse{Leagues: make([]dto.LeagueResponse, 0, len(leagues))}
	for _, l := range leagues {
		out.Leagues = append(out.Leagues, dto.LeagueResponse{Code: l.Code, Name: l.Name})
	}
	c.JSON(http.StatusOK, out)
}

// ListFixtures はリーグの試合一覧を返します。
//
// GET /v1/leagues/:code/fixtures
func (h *MatchHandler) ListFixtures(c *gin.Context) {
	code := c.Param("code")
	fixtures, err := h.uc.Fixtures(code)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownLeague) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.FixturesResponse{League: code, Fixtures: fixtures})
}

// Estimate は試合結果の確率とおすすめを返します。
//
// POST /v1/match/estimate {"league":"PL","match":"Liverpool vs Chelsea - 2025-06-06"}
func (h *MatchHandler) Estimate(c *gin.Context) {
	var req dto.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("match estimate validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	est, err := h.uc.Estimate(c.Request.Context(), req.League, req.Match)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownLeague) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("match estimate failed", "league", req.League, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, dto.NewEstimateResponse(*est))
}
