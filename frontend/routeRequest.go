package frontend

import (
	"fmt"
	"net/http"
	"strings"

	"lostark_dps/analysis"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// Runs are immutable once recorded, so successful responses stay fresh.
const cacheControl = "public, max-age=3600, stale-while-revalidate=600"

func routeRunData(an *analysis.Analyzer) gin.HandlerFunc {
	return func(c *gin.Context) {
		runID := c.Query("id")
		playerID := c.Query("player_id")
		gateID := c.Query("gate_id")

		if playerID == "" && gateID == "" {
			routeFullData(c, an, runID)
			return
		}

		var missing []string
		for _, p := range []struct{ name, value string }{
			{"id", runID},
			{"player_id", playerID},
			{"gate_id", gateID},
		} {
			if p.value == "" {
				missing = append(missing, p.name)
			}
		}
		if len(missing) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing parameter(s): " + strings.Join(missing, ", ")})
			return
		}

		rows, err := an.PlayerBreakdown(&analysis.Options{
			Context:  c.Request.Context(),
			RunID:    runID,
			PlayerID: playerID,
			GateID:   gateID,
		})
		switch {
		case errors.Is(err, analysis.ErrZeroDamage):
			c.Header("Cache-Control", cacheControl)
			c.JSON(http.StatusOK, gin.H{
				"message": analysis.ErrZeroDamage.Error(),
				"data":    []analysis.SkillStatRow{},
			})

		case err != nil:
			writeError(c, err)

		default:
			c.Header("Cache-Control", cacheControl)
			c.JSON(http.StatusOK, rows)
		}
	}
}

func routeFullData(c *gin.Context, an *analysis.Analyzer, runID string) {
	if runID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing parameter(s): id"})
		return
	}

	data, err := an.Full(c.Request.Context(), runID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Cache-Control", cacheControl)
	c.JSON(http.StatusOK, data)
}

func writeError(c *gin.Context, err error) {
	var nf *analysis.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
		return
	}

	sentry.CaptureException(err)
	fmt.Printf("%+v\n", err)

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
