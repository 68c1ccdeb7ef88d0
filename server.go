package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/mmdatafocus/farm_backend/config"
	"github.com/mmdatafocus/farm_backend/models"
	"github.com/mmdatafocus/farm_backend/models/reports"
	"github.com/mmdatafocus/farm_backend/utils"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
)

const defaultPort = "8080"

var tracer = otel.Tracer("farm-analytics")

// Define a struct to represent the rate limiter.
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func getRedisClient(redisAddress string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: redisAddress,
	})
	return client
}

// parseDateRangeQuery reads the optional from/to/timezone query params
// shared by every report endpoint.
func parseDateRangeQuery(c *gin.Context) (reports.DateRange, error) {
	return reports.ParseDateRange(c.Query("from"), c.Query("to"), c.Query("timezone"))
}

func abortWithError(c *gin.Context, err error) {
	switch {
	case utils.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func topCustomersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		dateRange, err := parseDateRangeQuery(c)
		if err != nil {
			abortWithError(c, err)
			return
		}
		limit := 0
		if v := c.Query("limit"); v != "" {
			limit, err = strconv.Atoi(v)
			if err != nil || limit < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
				return
			}
		}
		results, err := reports.GetTopCustomers(c.Request.Context(), dateRange, limit)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": results})
	}
}

func allCustomersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		dateRange, err := parseDateRangeQuery(c)
		if err != nil {
			abortWithError(c, err)
			return
		}
		results, err := reports.GetAllCustomers(c.Request.Context(), dateRange)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": results})
	}
}

func productSalesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		dateRange, err := parseDateRangeQuery(c)
		if err != nil {
			abortWithError(c, err)
			return
		}
		results, err := reports.GetProductSales(c.Request.Context(), dateRange)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": results})
	}
}

func salesByCategoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		dateRange, err := parseDateRangeQuery(c)
		if err != nil {
			abortWithError(c, err)
			return
		}
		results, err := reports.GetSalesByCategory(c.Request.Context(), dateRange)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": results})
	}
}

func salesTrendsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		dateRange, err := parseDateRangeQuery(c)
		if err != nil {
			abortWithError(c, err)
			return
		}
		days := reports.DefaultTrendDays
		if v := c.Query("days"); v != "" {
			days, err = strconv.Atoi(v)
			if err != nil || days <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
				return
			}
		}
		results, err := reports.GetSalesTrends(c.Request.Context(), dateRange, days)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": results})
	}
}

func allOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		dateRange, err := parseDateRangeQuery(c)
		if err != nil {
			abortWithError(c, err)
			return
		}
		results, err := reports.GetAllOrders(c.Request.Context(), dateRange)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": results})
	}
}

func customerOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		customerId := c.Param("id")
		dateRange, err := parseDateRangeQuery(c)
		if err != nil {
			abortWithError(c, err)
			return
		}
		// 404 for an unknown customer instead of an empty order list.
		if _, err := models.GetCustomerByCustomerId(c.Request.Context(), customerId); err != nil {
			abortWithError(c, err)
			return
		}
		results, err := reports.GetCustomerOrders(c.Request.Context(), customerId, dateRange)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": results})
	}
}

func segmentationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		dateRange, err := parseDateRangeQuery(c)
		if err != nil {
			abortWithError(c, err)
			return
		}
		report, err := reports.GetCustomerSegmentation(c.Request.Context(), dateRange)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

type searchQuery struct {
	Term  string `form:"q" binding:"required"`
	Field string `form:"field" binding:"omitempty,searchfield"`
}

func searchCustomersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var q searchQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "q is required and field must be one of Name, Email, Phone, Address, City, State"})
			return
		}
		var field *models.SearchField
		if q.Field != "" {
			f, err := models.ParseSearchField(q.Field)
			if err != nil {
				abortWithError(c, err)
				return
			}
			field = &f
		}
		results, err := reports.SearchCustomers(c.Request.Context(), q.Term, field)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": results})
	}
}

func dashboardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		dateRange, err := parseDateRangeQuery(c)
		if err != nil {
			abortWithError(c, err)
			return
		}
		summary, err := reports.GetDashboardSummary(c.Request.Context(), dateRange)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func recommendationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if customerId := c.Query("customer"); customerId != "" {
			results, err := reports.GetCustomerRecommendations(ctx, customerId)
			if err != nil {
				abortWithError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"data": results})
			return
		}
		category := c.Query("category")
		if category == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "customer or category is required"})
			return
		}
		results, err := reports.GetCategoryRecommendations(ctx, category)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": results})
	}
}

func exportCustomersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		dateRange, err := parseDateRangeQuery(c)
		if err != nil {
			abortWithError(c, err)
			return
		}
		results, err := reports.GetAllCustomers(c.Request.Context(), dateRange)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="customers.xlsx"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := reports.WriteCustomerAggregatesXlsx(c.Writer, results); err != nil {
			_ = c.Error(err)
		}
	}
}

func exportProductSalesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		dateRange, err := parseDateRangeQuery(c)
		if err != nil {
			abortWithError(c, err)
			return
		}
		results, err := reports.GetProductSales(c.Request.Context(), dateRange)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="product_sales.xlsx"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := reports.WriteProductSalesXlsx(c.Writer, results); err != nil {
			_ = c.Error(err)
		}
	}
}

// ingestHandler accepts a multipart CSV upload and runs the bulk load.
func ingestHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			abortWithError(c, err)
			return
		}
		defer file.Close()

		opts := models.IngestOptions{Variant: models.IngestVariant(c.DefaultQuery("variant", "farm"))}
		if opts.Variant != models.IngestVariantFarm && opts.Variant != models.IngestVariantPizza {
			c.JSON(http.StatusBadRequest, gin.H{"error": "variant must be farm or pizza"})
			return
		}
		ctx, span := tracer.Start(c.Request.Context(), "ingest-customers")
		defer span.End()
		summary, err := models.LoadCustomerCSV(ctx, file, opts)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func listProductsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := models.ListProducts(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": products})
	}
}

func listToppingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		toppings, err := models.ListToppings(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": toppings})
	}
}

func getCustomerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		customer, err := models.GetCustomerByCustomerId(c.Request.Context(), c.Param("id"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, customer)
	}
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only log when there are errors
		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("searchfield", func(fl validator.FieldLevel) bool {
			_, err := models.ParseSearchField(fl.Field().String())
			return err == nil
		})
	}
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	registerValidators()

	r := gin.New()
	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		// Gate app endpoints on DB readiness. Redis is optional.
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// In production require an explicit allowlist; allow all elsewhere.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization", "x-correlation-id")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	// Optional rate limiting.
	// Env:
	// - RATE_LIMIT_ENABLED=true
	// - RATE_LIMIT_WINDOW_SECONDS=60
	// - RATE_LIMIT_MAX_REQUESTS=600
	if strings.EqualFold(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED")), "true") {
		client := getRedisClient(os.Getenv("REDIS_ADDRESS"))
		limit := int64(600)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_MAX_REQUESTS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				limit = n
			}
		}
		windowSec := int64(60)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_WINDOW_SECONDS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				windowSec = n
			}
		}
		rateLimiter := NewRateLimiter(client, limit, time.Duration(windowSec)*time.Second)
		r.Use(rateLimiter.RateLimitMiddleware)
	}

	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.GET("/customers/:id", getCustomerHandler())
	api.GET("/customers/:id/orders", customerOrdersHandler())
	api.GET("/products", listProductsHandler())
	api.GET("/toppings", listToppingsHandler())
	api.POST("/ingest", ingestHandler())

	rpt := api.Group("/reports")
	rpt.GET("/top-customers", topCustomersHandler())
	rpt.GET("/customers", allCustomersHandler())
	rpt.GET("/product-sales", productSalesHandler())
	rpt.GET("/sales-by-category", salesByCategoryHandler())
	rpt.GET("/sales-trends", salesTrendsHandler())
	rpt.GET("/orders", allOrdersHandler())
	rpt.GET("/segmentation", segmentationHandler())
	rpt.GET("/search", searchCustomersHandler())
	rpt.GET("/dashboard", dashboardHandler())
	rpt.GET("/recommendations", recommendationsHandler())
	rpt.GET("/export/customers.xlsx", exportCustomersHandler())
	rpt.GET("/export/product-sales.xlsx", exportProductSalesHandler())

	r.NoRoute(customNotFoundHandler)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabase()
	config.ConnectRedis()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port, "/api")

	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}
}

// Initialize a new RateLimiter instance.
func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Middleware function to check rate limits.
func (rl *RateLimiter) RateLimitMiddleware(c *gin.Context) {
	key := c.ClientIP()

	count, err := rl.client.Incr(c.Request.Context(), "rate:"+key).Result()
	if err != nil {
		// Redis trouble should not take the API down.
		c.Next()
		return
	}
	if count == 1 {
		rl.client.Expire(c.Request.Context(), "rate:"+key, rl.window)
	}
	if count > rl.limit {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": fmt.Sprintf("rate limit exceeded: %d requests per %s", rl.limit, rl.window),
		})
		return
	}
	c.Next()
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
