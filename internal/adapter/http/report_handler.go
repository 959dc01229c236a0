package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (s *Server) getSummary(c *gin.Context) {
	summary, err := s.dashboardService.GetSummary(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_balance":   summary.TotalBalance.String(),
		"monthly_totals":  toPeriodTotalsResponse(summary.MonthlyTotals),
		"wallet_count":    summary.WalletCount,
		"wallets":         toWalletResponses(summary.Wallets),
		"recent_activity": toTransactionResponses(summary.RecentActivity),
	})
}

func (s *Server) getPeriodTotals(c *gin.Context) {
	start, err := parseDate(c.Query("start_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date: use YYYY-MM-DD or RFC3339"})
		return
	}
	end, err := parseDate(c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date: use YYYY-MM-DD or RFC3339"})
		return
	}

	totals, err := s.reportService.PeriodTotals(c.Request.Context(), start, end)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPeriodTotalsResponse(totals))
}

func (s *Server) getCategoryBreakdown(c *gin.Context) {
	start, err := parseDate(c.Query("start_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date: use YYYY-MM-DD or RFC3339"})
		return
	}
	end, err := parseDate(c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date: use YYYY-MM-DD or RFC3339"})
		return
	}

	breakdown, err := s.reportService.CategoryBreakdown(c.Request.Context(), start, end)
	if err != nil {
		s.writeError(c, err)
		return
	}

	resp := make([]categoryTotalResponse, 0, len(breakdown))
	for _, entry := range breakdown {
		resp = append(resp, categoryTotalResponse{
			Category: entry.Category,
			Amount:   entry.Amount.String(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"categories": resp})
}

func (s *Server) getDailySeries(c *gin.Context) {
	days := 7
	if daysStr := c.Query("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days: must be a positive number"})
			return
		}
		days = parsed
	}

	series, err := s.reportService.DailySeries(c.Request.Context(), days)
	if err != nil {
		s.writeError(c, err)
		return
	}

	resp := make([]dailyTotalResponse, 0, len(series))
	for _, day := range series {
		resp = append(resp, dailyTotalResponse{
			Day:     day.Day.Format("2006-01-02"),
			Income:  day.Income.String(),
			Expense: day.Expense.String(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"days": resp})
}
