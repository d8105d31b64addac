package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/khanhduong/wikiquiz/internal/apperr"
	"github.com/khanhduong/wikiquiz/internal/dto"
	"github.com/khanhduong/wikiquiz/internal/service"
	"github.com/rs/zerolog/log"
)

type QuizController struct {
	quizService service.QuizService
}

func NewQuizController(qs service.QuizService) *QuizController {
	return &QuizController{quizService: qs}
}

// statusForKind maps pipeline failure kinds to HTTP status codes.
// Upstream failures (scrape, LLM) are gateway errors, quota is
// service-unavailable, and the generate race is a conflict.
func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidURL:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindDuplicateURL:
		return http.StatusConflict
	case apperr.KindLLMQuota:
		return http.StatusServiceUnavailable
	case apperr.KindFetch, apperr.KindExtraction, apperr.KindLLMTransport,
		apperr.KindMalformedResponse, apperr.KindSchemaValidation,
		apperr.KindAssemblyValidation:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(ctx *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == "" {
		kind = "internal_error"
	}
	ctx.JSON(statusForKind(kind), dto.ErrorResponse{Error: string(kind), Message: err.Error()})
}

// GenerateQuiz godoc
// @Summary Generate (or return the cached) quiz for a Wikipedia article
// @Description Scrapes the article, runs LLM analysis/quiz/related-topics generation, stores the result. A URL that was already generated returns the stored record without any LLM calls.
// @Tags Quizzes
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Wikipedia article URL"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid URL"
// @Failure 409 {object} dto.ErrorResponse "Concurrent generation race"
// @Failure 502 {object} dto.ErrorResponse "Upstream fetch or LLM failure"
// @Failure 503 {object} dto.ErrorResponse "LLM quota exhausted"
// @Router /quizzes/generate [post]
func (c *QuizController) GenerateQuiz(ctx *gin.Context) {
	var req dto.GenerateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   string(apperr.KindInvalidURL),
			Message: "request body must contain a url field",
		})
		return
	}

	record, err := c.quizService.GenerateQuiz(ctx.Request.Context(), req.URL)
	if err != nil {
		log.Error().Err(err).Str("url", req.URL).Msg("GenerateQuiz failed")
		respondError(ctx, err)
		return
	}

	resp, err := dto.QuizResponseFromRecord(record)
	if err != nil {
		log.Error().Err(err).Uint("id", record.ID).Msg("Stored quiz record failed to decode")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: "stored record could not be decoded",
		})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListQuizzes godoc
// @Summary List stored quizzes
// @Description Returns summaries of every stored quiz, newest first. Summaries are truncated for display.
// @Tags Quizzes
// @Produce json
// @Success 200 {array} dto.QuizSummaryResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	records, err := c.quizService.ListQuizzes()
	if err != nil {
		log.Error().Err(err).Msg("ListQuizzes failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: "failed to list quizzes",
		})
		return
	}

	summaries := make([]dto.QuizSummaryResponse, 0, len(records))
	for i := range records {
		summaries = append(summaries, dto.QuizSummaryFromRecord(&records[i]))
	}
	ctx.JSON(http.StatusOK, summaries)
}

// GetQuiz godoc
// @Summary Get one quiz by ID
// @Tags Quizzes
// @Produce json
// @Param quiz_id path int true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid quiz ID"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /quizzes/{quiz_id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	idStr := ctx.Param("quiz_id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_id",
			Message: "quiz ID must be a positive integer",
		})
		return
	}

	record, err := c.quizService.GetQuizByID(uint(id))
	if err != nil {
		respondError(ctx, err)
		return
	}

	resp, err := dto.QuizResponseFromRecord(record)
	if err != nil {
		log.Error().Err(err).Uint64("id", id).Msg("Stored quiz record failed to decode")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: "stored record could not be decoded",
		})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
