package command_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthieukhl/nexsales/internal/command"
)

func intPtr(v int) *int { return &v }

func TestParse_PlainText(t *testing.T) {
	assert.Equal(t, command.PlainText{Message: "Hello"}, command.Parse("Hello"))
}

func TestParse_Actions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want command.Action
	}{
		{
			name: "create order",
			raw:  `{"action":"create_order","customerId":"c1","items":[{"productId":"p1","quantity":2}],"confirmationMessage":"Ordered 2 widgets"}`,
			want: command.CreateOrder{
				CustomerID:          "c1",
				Items:               []command.OrderLine{{ProductID: "p1", Quantity: 2}},
				ConfirmationMessage: "Ordered 2 widgets",
			},
		},
		{
			name: "create order without confirmation message",
			raw:  `{"action":"create_order","customerId":"c1","items":[{"productId":"p1","quantity":1}]}`,
			want: command.CreateOrder{CustomerID: "c1", Items: []command.OrderLine{{ProductID: "p1", Quantity: 1}}},
		},
		{
			name: "lookup product",
			raw:  `{"action":"lookup_product","productId":"prod-001"}`,
			want: command.LookupProduct{ProductID: "prod-001"},
		},
		{
			name: "update stock negative",
			raw:  `{"action":"update_stock","productId":"prod-001","quantity":-4}`,
			want: command.UpdateStock{ProductID: "prod-001", Quantity: intPtr(-4)},
		},
		{
			name: "update stock zero",
			raw:  `{"action":"update_stock","productId":"prod-001","quantity":0}`,
			want: command.UpdateStock{ProductID: "prod-001", Quantity: intPtr(0)},
		},
		{
			name: "customer history",
			raw:  `{"action":"lookup_customer_history","customerId":"cust-001"}`,
			want: command.LookupCustomerHistory{CustomerID: "cust-001"},
		},
		{
			name: "report defaults to today",
			raw:  `{"action":"generate_report"}`,
			want: command.GenerateReport{Period: command.PeriodToday},
		},
		{
			name: "extra fields are ignored",
			raw:  `{"action":"lookup_product","productId":"p1","reason":"user asked","confidence":0.9}`,
			want: command.LookupProduct{ProductID: "p1"},
		},
		{
			name: "json code fence",
			raw:  "```json\n{\"action\":\"lookup_product\",\"productId\":\"p1\"}\n```",
			want: command.LookupProduct{ProductID: "p1"},
		},
		{
			name: "trailing code fence only",
			raw:  "{\"action\":\"lookup_product\",\"productId\":\"p1\"}\n```",
			want: command.LookupProduct{ProductID: "p1"},
		},
		{
			name: "leading code fence only",
			raw:  "```json\n{\"action\":\"lookup_product\",\"productId\":\"p1\"}",
			want: command.LookupProduct{ProductID: "p1"},
		},
		{
			name: "integral float quantity",
			raw:  `{"action":"create_order","customerId":"c1","items":[{"productId":"p1","quantity":2.0}]}`,
			want: command.CreateOrder{CustomerID: "c1", Items: []command.OrderLine{{ProductID: "p1", Quantity: 2}}},
		},
		{
			name: "exponent quantity",
			raw:  `{"action":"create_order","customerId":"c1","items":[{"productId":"p1","quantity":1.2e1}]}`,
			want: command.CreateOrder{CustomerID: "c1", Items: []command.OrderLine{{ProductID: "p1", Quantity: 12}}},
		},
		{
			name: "update stock integral float",
			raw:  `{"action":"update_stock","productId":"p1","quantity":-3.00}`,
			want: command.UpdateStock{ProductID: "p1", Quantity: intPtr(-3)},
		},
		{
			name: "bare code fence with padding",
			raw:  "  \n```\n{\"action\":\"generate_report\",\"period\":\"today\"}\n```  ",
			want: command.GenerateReport{Period: command.PeriodToday},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := command.Parse(tt.raw)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_FallsBackToPlainText(t *testing.T) {
	inputs := map[string]string{
		"empty":                   "",
		"malformed json":          `{"action":"create_order",`,
		"unknown action":          `{"action":"delete_everything","productId":"p1"}`,
		"missing action":          `{"productId":"p1"}`,
		"action wrong type":       `{"action":5}`,
		"missing customer":        `{"action":"create_order","items":[{"productId":"p1","quantity":1}]}`,
		"empty items":             `{"action":"create_order","customerId":"c1","items":[]}`,
		"zero line quantity":      `{"action":"create_order","customerId":"c1","items":[{"productId":"p1","quantity":0}]}`,
		"fractional quantity":     `{"action":"create_order","customerId":"c1","items":[{"productId":"p1","quantity":1.5}]}`,
		"missing stock quantity":  `{"action":"update_stock","productId":"p1"}`,
		"null stock quantity":     `{"action":"update_stock","productId":"p1","quantity":null}`,
		"fractional stock change": `{"action":"update_stock","productId":"p1","quantity":0.5}`,
		"quantity out of range":   `{"action":"create_order","customerId":"c1","items":[{"productId":"p1","quantity":1e30}]}`,
		"stock change too large":  `{"action":"update_stock","productId":"p1","quantity":-1e19}`,
		"huge exponent":           `{"action":"update_stock","productId":"p1","quantity":1e999999999}`,
		"tiny exponent":           `{"action":"update_stock","productId":"p1","quantity":1e-999999999}`,
		"quantity as bool":        `{"action":"update_stock","productId":"p1","quantity":true}`,
		"missing product id":      `{"action":"lookup_product"}`,
		"unsupported period":      `{"action":"generate_report","period":"last_year"}`,
		"json array":              `[{"action":"lookup_product","productId":"p1"}]`,
		"prose around json":       `Sure! {"action":"lookup_product","productId":"p1"}`,
		"trailing text after obj": `{"action":"lookup_product","productId":"p1"} done`,
	}

	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, command.PlainText{Message: raw}, command.Parse(raw))
			})
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	_, err := command.Decode("just words")
	require.ErrorIs(t, err, command.ErrNotJSON)

	_, err = command.Decode(`{"action":"fly"}`)
	require.ErrorIs(t, err, command.ErrParse)
	assert.Contains(t, err.Error(), "fly")
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, command.StripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, command.StripCodeFence("```{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, command.StripCodeFence("```json {\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, command.StripCodeFence("{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, command.StripCodeFence("```JSON\n{\"a\":1}"))
	assert.Equal(t, "plain", command.StripCodeFence("  plain \n"))
}

func TestUpdateStockDelta(t *testing.T) {
	assert.Equal(t, 0, command.UpdateStock{}.Delta())
	assert.Equal(t, 7, command.UpdateStock{Quantity: intPtr(7)}.Delta())
}

func FuzzParse(f *testing.F) {
	seeds := []string{
		"",
		"Hello",
		"```json\n{\"action\":\"lookup_product\",\"productId\":\"p1\"}\n```",
		`{"action":"create_order","customerId":"c1","items":[{"productId":"p1","quantity":2.0}]}`,
		`{"action":"update_stock","productId":"p1","quantity":-9223372036854775808}`,
		`{"action":"update_stock","productId":"p1","quantity":1e400}`,
		`{"action":"generate_report","period":"today"}`,
		`{"action":`,
		"{\"action\":\"create_order\",\"items\":[{}]}\n```",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		var got command.Action
		require.NotPanics(t, func() { got = command.Parse(raw) })
		require.NotNil(t, got)

		if pt, ok := got.(command.PlainText); ok {
			assert.Equal(t, raw, pt.Message)
		}
	})
}
