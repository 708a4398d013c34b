package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/etnz/satstack"
	"google.golang.org/genai"
)

func testSource(txs ...satstack.Transaction) Source {
	return func(context.Context) ([]satstack.Transaction, satstack.TaxConfiguration, error) {
		return txs, satstack.DefaultTaxConfiguration(), nil
	}
}

func ledger() []satstack.Transaction {
	return []satstack.Transaction{
		satstack.NewTransaction("a", satstack.TxBuy, satstack.NewDate(2022, time.January, 1), satstack.Q(1), satstack.USD(20000)),
		satstack.NewTransaction("b", satstack.TxBuy, satstack.NewDate(2023, time.January, 1), satstack.Q(1), satstack.USD(30000)),
		satstack.NewTransaction("s", satstack.TxSell, satstack.NewDate(2023, time.June, 1), satstack.Q(1.5), satstack.USD(50000)),
		satstack.NewTransaction("bad", satstack.TxSell, satstack.NewDate(2023, time.July, 1), satstack.Q(-1), satstack.USD(1)),
	}
}

func call(lib Library, name string, args map[string]any) *genai.FunctionResponse {
	return lib(context.Background(), &genai.FunctionCall{ID: "1", Name: name, Args: args})
}

func TestTools(t *testing.T) {
	lib := NewLibrary(Tools(testSource(ledger()...)))

	tests := []struct {
		name string
		args map[string]any
		want []string
	}{
		{"tax_report", map[string]any{"year": float64(2023)}, []string{"2023", "$15,000.00", "$2,416.67", "bad"}},
		{"list_disposals", map[string]any{"year": "2023"}, []string{"| s |", "long", "short"}},
		{"tax_summary", nil, []string{"2022", "2023"}},
		{"quarterly_estimates", map[string]any{"year": 2023}, []string{"$604.17", "$604.16"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := call(lib, tc.name, tc.args)
			if resp.ID != "1" || resp.Name != tc.name {
				t.Errorf("response id, name = %q, %q, want 1, %q", resp.ID, resp.Name, tc.name)
			}
			out, ok := resp.Response["output"].(string)
			if !ok {
				t.Fatalf("response = %v, want an output", resp.Response)
			}
			for _, w := range tc.want {
				if !strings.Contains(out, w) {
					t.Errorf("output does not contain %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestTools_Errors(t *testing.T) {
	lib := NewLibrary(Tools(testSource(ledger()...)))

	for _, args := range []map[string]any{nil, {"year": "twenty"}, {"year": true}} {
		resp := call(lib, "tax_report", args)
		if _, ok := resp.Response["error"]; !ok {
			t.Errorf("tax_report(%v) = %v, want an error", args, resp.Response)
		}
	}

	resp := call(lib, "delete_ledger", nil)
	if _, ok := resp.Response["error"]; !ok {
		t.Errorf("unknown function response = %v, want an error", resp.Response)
	}

	failing := NewLibrary(Tools(func(context.Context) ([]satstack.Transaction, satstack.TaxConfiguration, error) {
		return nil, satstack.TaxConfiguration{}, errors.New("no ledger")
	}))
	resp = call(failing, "tax_summary", nil)
	if got := resp.Response["error"]; got != "no ledger" {
		t.Errorf("failing source error = %v, want no ledger", got)
	}
}

func TestNewAccountant(t *testing.T) {
	e := NewAccountant(DefaultModel, testSource())
	decls := e.Config.Tools[0].FunctionDeclarations
	var names []string
	for _, d := range decls {
		names = append(names, d.Name)
	}
	if got := strings.Join(names, ","); got != "tax_report,list_disposals,tax_summary,quarterly_estimates" {
		t.Errorf("accountant tools = %s", got)
	}

	f := NewFacilitator(DefaultModel, e, NewTaxAdvisor(DefaultModel))
	decls = f.Config.Tools[0].FunctionDeclarations
	if len(decls) != 2 || decls[0].Name != "Accountant" || decls[1].Name != "TaxAdvisor" {
		t.Errorf("facilitator tools = %v, want Accountant and TaxAdvisor", decls)
	}
}
