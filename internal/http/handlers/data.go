package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Seeder replaces the stored users with the sample set and returns how many it wrote.
type Seeder func(ctx context.Context) (int, error)

type DataHandler struct {
	seed Seeder
}

func NewDataHandler(seed Seeder) *DataHandler {
	return &DataHandler{seed: seed}
}

// POST /api/data/seed
func (h *DataHandler) Seed(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 10*time.Second)
	defer cancel()

	n, err := h.seed(cctx)
	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Database seeded successfully with %d sample users.", n),
	})
}
