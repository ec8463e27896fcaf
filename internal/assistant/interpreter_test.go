package assistant_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthieukhl/nexsales/internal/assistant"
	"github.com/matthieukhl/nexsales/internal/executor"
	"github.com/matthieukhl/nexsales/internal/llm/generate"
	"github.com/matthieukhl/nexsales/internal/models"
	"github.com/matthieukhl/nexsales/internal/response"
	"github.com/matthieukhl/nexsales/internal/store"
	"github.com/matthieukhl/nexsales/internal/types"
)

type stubGenerator struct {
	reply   string
	err     error
	block   bool
	prompts []string
	opts    []map[string]any
}

func (g *stubGenerator) Complete(ctx context.Context, prompt string, opts map[string]any) (string, error) {
	g.prompts = append(g.prompts, prompt)
	g.opts = append(g.opts, opts)
	if g.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return g.reply, g.err
}

func (g *stubGenerator) Model() string { return "stub" }

var company = models.CompanyConfig{Name: "NexSales Corp", Currency: "USD", TaxRate: decimal.RequireFromString("0.15")}

func newInterpreter(t *testing.T, gen *stubGenerator, opts ...assistant.Option) (*store.Store, *assistant.Interpreter) {
	t.Helper()
	s := store.New()
	require.NoError(t, s.AddProduct(models.Product{ID: "p1", SKU: "SKU1", Name: "Widget", Price: decimal.NewFromInt(10), Stock: 5, ReorderLevel: 1}))
	require.NoError(t, s.AddCustomer(models.Customer{ID: "c1", Name: "Ada", Email: "ada@example.com", Company: "Engines Ltd"}))
	ex := executor.New(s, company)
	return s, assistant.NewInterpreter(gen, s, ex, opts...)
}

func TestHandle_PlainText(t *testing.T) {
	gen := &stubGenerator{reply: "Hello"}
	s, in := newInterpreter(t, gen)
	before := s.Snapshot()

	got := in.Handle(context.Background(), "hi there")
	assert.Equal(t, response.Plain("Hello"), got)
	assert.Equal(t, before, s.Snapshot())
}

func TestHandle_CreateOrder(t *testing.T) {
	gen := &stubGenerator{reply: "```json\n" + `{"action":"create_order","customerId":"c1","items":[{"productId":"p1","quantity":2}],"confirmationMessage":"2 widgets for Ada"}` + "\n```"}
	s, in := newInterpreter(t, gen)

	got := in.Handle(context.Background(), "order 2 widgets for Ada")
	assert.Equal(t, "✅ Success! 2 widgets for Ada\nTotal: $23.00", got.Text)

	p1, _ := s.Product("p1")
	assert.Equal(t, 3, p1.Stock)
	orders := s.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderStatusConfirmed, orders[0].Status)
}

func TestHandle_NotFoundLeavesStoreUnchanged(t *testing.T) {
	gen := &stubGenerator{reply: `{"action":"create_order","customerId":"ghost","items":[{"productId":"p1","quantity":1}]}`}
	s, in := newInterpreter(t, gen)
	before := s.Snapshot()

	got := in.Handle(context.Background(), "order for ghost")
	assert.Equal(t, "I understood the order, but failed to create it due to missing data (Customer or Product ID mismatch).", got.Text)
	assert.Equal(t, before, s.Snapshot())
}

func TestHandle_MalformedCommandIsPlainText(t *testing.T) {
	raw := `{"action":"create_order","customerId":"c1","items":[]}`
	s, in := newInterpreter(t, &stubGenerator{reply: raw})
	before := s.Snapshot()

	got := in.Handle(context.Background(), "order nothing")
	assert.Equal(t, response.Plain(raw), got)
	assert.Equal(t, before, s.Snapshot())
}

func TestHandle_LookupProductCard(t *testing.T) {
	_, in := newInterpreter(t, &stubGenerator{reply: `{"action":"lookup_product","productId":"p1"}`})

	got := in.Handle(context.Background(), "stock for widget")
	require.NotNil(t, got.Data)
	assert.Equal(t, response.PayloadProductCard, got.Data.Type)
}

func TestHandle_UpstreamFailure(t *testing.T) {
	s, in := newInterpreter(t, &stubGenerator{err: errors.New("connection refused")})
	before := s.Snapshot()

	got := in.Handle(context.Background(), "hi")
	assert.Equal(t, response.Upstream(), got)
	assert.Equal(t, before, s.Snapshot())
}

func TestHandle_Timeout(t *testing.T) {
	_, in := newInterpreter(t, &stubGenerator{block: true}, assistant.WithTimeout(10*time.Millisecond))

	got := in.Handle(context.Background(), "hi")
	assert.Equal(t, response.Upstream(), got)
}

func TestHandle_EmptyInputAndReply(t *testing.T) {
	gen := &stubGenerator{reply: "  "}
	_, in := newInterpreter(t, gen)

	got := in.Handle(context.Background(), "   ")
	assert.NotEmpty(t, got.Text)
	assert.Empty(t, gen.prompts)

	assert.Equal(t, response.Empty(), in.Handle(context.Background(), "hi"))
}

func TestHandle_ExecutesAfterCallerCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gen := &cancelAfterGenerator{
		stubGenerator: &stubGenerator{reply: `{"action":"update_stock","productId":"p1","quantity":4}`},
		cancel:        cancel,
	}

	s := store.New()
	require.NoError(t, s.AddProduct(models.Product{ID: "p1", Name: "Widget", Price: decimal.NewFromInt(10), Stock: 5}))
	in := assistant.NewInterpreter(gen, s, executor.New(s, company))

	got := in.Handle(ctx, "add 4 widgets")
	assert.Contains(t, got.Text, "New Stock Level: 9")
}

type cancelAfterGenerator struct {
	*stubGenerator
	cancel context.CancelFunc
}

func (g *cancelAfterGenerator) Complete(ctx context.Context, prompt string, opts map[string]any) (string, error) {
	out, err := g.stubGenerator.Complete(ctx, prompt, opts)
	g.cancel()
	return out, err
}

func TestHandle_PromptIsRedacted(t *testing.T) {
	gen := &stubGenerator{reply: "ok"}
	_, in := newInterpreter(t, gen)

	in.Handle(context.Background(), "how many\nwidgets?")
	require.Len(t, gen.prompts, 1)
	prompt := gen.prompts[0]

	assert.Contains(t, prompt, `"id":"p1"`)
	assert.Contains(t, prompt, `"company":"Engines Ltd"`)
	assert.Contains(t, prompt, `"taxRate":0.15`)
	assert.Contains(t, prompt, types.PromptUserHeading+"\nhow many widgets?\n")
	assert.NotContains(t, prompt, "MOCK")
	assert.NotContains(t, prompt, "ada@example.com")
	assert.NotContains(t, prompt, "SKU1")
	assert.Contains(t, prompt, `"action": "generate_report"`)
}

func TestGenerateMockData(t *testing.T) {
	gen := &stubGenerator{reply: `{
		"products": [
			{"id": "p1", "sku": "M1", "name": "Lamp", "category": "Office", "price": 20.5, "stock": 3, "reorder_level": 5},
			{"sku": "M2", "name": "Mat", "category": "Office", "price": 12, "stock": 30, "reorder_level": 5}
		],
		"customers": [{"id": "c9", "name": "Zed", "email": "zed@example.com", "phone": "1", "company": "Z"}]
	}`}
	s, in := newInterpreter(t, gen)

	res, err := in.GenerateMockData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, store.MockDataResult{Products: 2, Customers: 1}, res)
	assert.Len(t, s.Products(), 3)
	assert.Len(t, s.Customers(), 2)

	orig, _ := s.Product("p1")
	assert.Equal(t, "Widget", orig.Name, "colliding id must not overwrite")

	require.Len(t, gen.opts, 1)
	assert.Equal(t, true, gen.opts[0]["json"])
	assert.True(t, strings.HasPrefix(gen.prompts[0], types.PromptMockDataHeading+"\n"))
}

func TestGenerateMockData_Failures(t *testing.T) {
	_, in := newInterpreter(t, &stubGenerator{err: errors.New("no key")})
	_, err := in.GenerateMockData(context.Background())
	assert.ErrorIs(t, err, assistant.ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, response.ErrUpstream)

	s, in := newInterpreter(t, &stubGenerator{reply: "not json"})
	_, err = in.GenerateMockData(context.Background())
	assert.ErrorIs(t, err, assistant.ErrMockData)
	assert.Len(t, s.Products(), 1)
}

func TestInterpreter_WithMockGenerator(t *testing.T) {
	s := store.NewSeeded(time.Now())
	ex := executor.New(s, company)
	in := assistant.NewInterpreter(generate.NewMockGenerator("demo"), s, ex)

	got := in.Handle(context.Background(), "We received 20 units of USB Cable")
	assert.Contains(t, got.Text, "New Stock Level: 360")

	got = in.Handle(context.Background(), "Order 2 Wireless Mouse for John Smith")
	assert.Contains(t, got.Text, "✅ Success!")
	assert.Len(t, s.Orders(), 3)

	got = in.Handle(context.Background(), "end of day report")
	require.NotNil(t, got.Data)
	assert.Equal(t, response.PayloadDailyReport, got.Data.Type)
}
