package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/ysiton/shekelwise/internal/model"
)

type suggestionResponse struct {
	Business          string  `json:"business"`
	CurrentCategory   string  `json:"current_category"`
	SuggestedCategory string  `json:"suggested_category"`
	TransactionID     int64   `json:"transaction_id"`
	Amount            float64 `json:"amount"`
	Confidence        float64 `json:"confidence"`
}

type similarityResponse struct {
	Business   string  `json:"business"`
	Category   string  `json:"category"`
	Similarity float64 `json:"similarity"`
}

type approveRequest struct {
	Business         string `json:"business"`
	Category         string `json:"category"`
	PreviousCategory string `json:"previous_category"`
	Propagate        bool   `json:"propagate"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleStats(c *fiber.Ctx) error {
	stats, err := s.store.Stats(c.UserContext())
	if err != nil {
		return jsonError(c, statusFor(err), err.Error())
	}

	return c.JSON(fiber.Map{
		"total_transactions": stats.TotalTransactions,
		"total_categories":   stats.TotalCategories,
		"processed_files":    stats.ProcessedFiles,
		"known_businesses":   stats.KnownBusinesses,
		"total_amount":       stats.TotalAmount,
		"high_confidence":    stats.HighConfidence,
		"medium_confidence":  stats.MediumConfidence,
		"low_confidence":     stats.LowConfidence,
		"learned_categories": s.learner.CategoriesLearned(),
		"learned_keywords":   s.learner.KeywordCount(),
	})
}

func (s *Server) handleSuggestions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", s.config.SuggestionLimit)
	if limit <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "limit must be positive")
	}

	suggestions, err := s.learner.ImprovementSuggestions(c.UserContext(), limit)
	if err != nil {
		return jsonError(c, statusFor(err), err.Error())
	}

	out := make([]suggestionResponse, 0, len(suggestions))
	for _, sg := range suggestions {
		out = append(out, suggestionResponse{
			Business:          sg.Business,
			CurrentCategory:   sg.CurrentCategory,
			SuggestedCategory: sg.SuggestedCategory,
			TransactionID:     sg.TransactionID,
			Amount:            sg.Amount,
			Confidence:        sg.Confidence,
		})
	}
	return c.JSON(fiber.Map{"suggestions": out, "count": len(out)})
}

func (s *Server) handleSimilar(c *fiber.Ctx) error {
	business := c.Query("business")
	if business == "" {
		return jsonError(c, fiber.StatusBadRequest, "business query parameter is required")
	}
	threshold := c.QueryFloat("threshold", s.config.SimilarityThreshold)
	if threshold <= 0 || threshold > 1 {
		return jsonError(c, fiber.StatusBadRequest, "threshold must be in (0, 1]")
	}

	matches, err := s.propagator.FindSimilar(c.UserContext(), business, threshold)
	if err != nil {
		return jsonError(c, statusFor(err), err.Error())
	}

	out := make([]similarityResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, similarityResponse{
			Business:   m.Name,
			Category:   s.pipeline.Catalog().CategoryName(m.CategoryID),
			Similarity: m.Similarity,
		})
	}
	return c.JSON(fiber.Map{"matches": out, "count": len(out)})
}

// handleApprove pins a business to a category, rewrites its history, feeds
// the correction back into the learner, and optionally propagates the
// category to similar spellings.
func (s *Server) handleApprove(c *fiber.Ctx) error {
	var req approveRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Business == "" || req.Category == "" {
		return jsonError(c, fiber.StatusBadRequest, "business and category are required")
	}

	catalog := s.pipeline.Catalog()
	categoryID, ok := catalog.CategoryID(req.Category)
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "unknown category: "+req.Category)
	}

	updated, err := s.pipeline.Approve(c.UserContext(), req.Business, categoryID)
	if err != nil {
		return jsonError(c, statusFor(err), err.Error())
	}

	previous := req.PreviousCategory
	if previous == "" {
		previous = model.DefaultCategoryName
	}
	s.learner.RetrainOnCorrection(req.Business, previous, req.Category)

	propagated := 0
	if req.Propagate {
		propagated, err = s.propagator.Propagate(c.UserContext(), req.Business, categoryID, s.config.SimilarityThreshold)
		if err != nil {
			// The approval itself succeeded; report the partial outcome.
			slog.Warn("propagation after approval failed", "business", req.Business, "error", err)
		}
	}

	return c.JSON(fiber.Map{
		"success":              true,
		"transactions_updated": updated,
		"propagated":           propagated,
	})
}

func (s *Server) handleRetrain(c *fiber.Ctx) error {
	processed, err := s.learner.Learn(c.UserContext())
	if err != nil {
		return jsonError(c, statusFor(err), err.Error())
	}

	return c.JSON(fiber.Map{
		"success":            true,
		"transactions":       processed,
		"learned_categories": s.learner.CategoriesLearned(),
		"learned_keywords":   s.learner.KeywordCount(),
	})
}
