package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/matthieukhl/nexsales/internal/command"
	"github.com/matthieukhl/nexsales/internal/executor"
	"github.com/matthieukhl/nexsales/internal/models"
	"github.com/matthieukhl/nexsales/internal/response"
	"github.com/matthieukhl/nexsales/internal/store"
)

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

type productRequest struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name" binding:"required"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	ReorderLevel int             `json:"reorder_level" binding:"gte=0"`
}

type customerRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
}

type orderLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type orderRequest struct {
	CustomerID string             `json:"customerId" binding:"required"`
	Items      []orderLineRequest `json:"items" binding:"required,min=1,dive"`
}

type statusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

type mockDataResponse struct {
	response.Response
	Products  int `json:"products"`
	Customers int `json:"customers"`
}

// healthCheck endpoint for monitoring
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "nexsales",
		"version": version,
	})
}

func (s *Server) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, s.executor.Company())
}

func (s *Server) dashboard(c *gin.Context) {
	d, err := s.executor.Dashboard(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) dailyReport(c *gin.Context) {
	res, err := s.executor.Execute(c.Request.Context(), command.GenerateReport{Period: command.PeriodToday})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) analytics(c *gin.Context) {
	a, err := s.executor.Analytics(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, s.interpreter.Handle(c.Request.Context(), req.Message))
}

func (s *Server) mockData(c *gin.Context) {
	res, err := s.interpreter.GenerateMockData(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mockDataResponse{
		Response:  response.MockData(res, nil),
		Products:  res.Products,
		Customers: res.Customers,
	})
}

func (s *Server) listProducts(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Products())
}

func (s *Server) getProduct(c *gin.Context) {
	p, err := s.store.Product(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	p := models.Product{
		ID:           req.ID,
		SKU:          req.SKU,
		Name:         req.Name,
		Category:     req.Category,
		Price:        req.Price,
		Stock:        req.Stock,
		ReorderLevel: req.ReorderLevel,
	}
	if p.ID == "" {
		p.ID = store.NewProductID()
	}
	if err := s.store.AddProduct(p); err != nil {
		s.writeError(c, err)
		return
	}

	s.log.Info("product created", zap.String("product_id", p.ID))
	c.JSON(http.StatusCreated, p)
}

func (s *Server) updateProduct(c *gin.Context) {
	var upd store.ProductUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		s.badRequest(c, err)
		return
	}

	p, err := s.store.UpdateProduct(c.Param("id"), upd)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) deleteProduct(c *gin.Context) {
	if err := s.store.RemoveProduct(c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) restockProducts(c *gin.Context) {
	restocked, err := s.executor.RestockLowStock(c.Request.Context(), s.opts.RestockBuffer)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restocked": restocked})
}

func (s *Server) listCustomers(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Customers())
}

func (s *Server) createCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	cust := models.Customer{
		ID:      req.ID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
	}
	if cust.ID == "" {
		cust.ID = store.NewCustomerID()
	}
	if err := s.store.AddCustomer(cust); err != nil {
		s.writeError(c, err)
		return
	}

	s.log.Info("customer created", zap.String("customer_id", cust.ID))
	c.JSON(http.StatusCreated, cust)
}

func (s *Server) deleteCustomer(c *gin.Context) {
	if err := s.store.RemoveCustomer(c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) customerOrders(c *gin.Context) {
	res, err := s.executor.Execute(c.Request.Context(), command.LookupCustomerHistory{CustomerID: c.Param("id")})
	if err != nil {
		s.writeError(c, err)
		return
	}
	hist := res.(executor.CustomerHistory)
	c.JSON(http.StatusOK, response.HistoryContent{
		Customer:   hist.Customer,
		Orders:     hist.Orders,
		TotalSpent: hist.TotalSpent,
	})
}

func (s *Server) listOrders(c *gin.Context) {
	if customerID := c.Query("customer_id"); customerID != "" {
		c.JSON(http.StatusOK, s.store.OrdersByCustomer(customerID))
		return
	}
	c.JSON(http.StatusOK, s.store.Orders())
}

func (s *Server) getOrder(c *gin.Context) {
	o, err := s.store.Order(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (s *Server) createOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	lines := make([]command.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, command.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := s.executor.PlaceManualOrder(c.Request.Context(), req.CustomerID, lines)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	o, err := s.store.SetOrderStatus(c.Param("id"), req.Status)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.log.Info("order status changed", zap.String("order_id", o.OrderID), zap.String("status", string(o.Status)))
	c.JSON(http.StatusOK, o)
}
