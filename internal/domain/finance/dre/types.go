// Package dre computes the Demonstrativo de Resultado do Exercício: a
// period-scoped income statement for one lot, one pen or the whole operation.
//
// Statements are derived from the cost ledger and sale records at build time.
// They may be persisted as audit snapshots but are never the source of truth.
package dre

import (
	"time"

	"confina/internal/core/id"
	"confina/internal/core/types"
)

// EntityType selects the statement scope.
type EntityType string

const (
	EntityLot    EntityType = "lot"
	EntityPen    EntityType = "pen"
	EntityGlobal EntityType = "global"
)

// Valid reports whether the entity type is a known value.
func (t EntityType) Valid() bool {
	return t == EntityLot || t == EntityPen || t == EntityGlobal
}

// Revenue is the top section of the statement.
type Revenue struct {
	GrossSales       types.Money `json:"receitaBruta"`
	ProjectedRevenue types.Money `json:"receitaProjetada"`
	SalesDeductions  types.Money `json:"deducoes"`
	NetSales         types.Money `json:"receitaLiquida"`
}

// CostOfGoodsSold is the direct production cost section. Mortality and weight
// loss are non-cash write-offs but belong here on the accrual statement.
type CostOfGoodsSold struct {
	AnimalPurchase types.Money `json:"aquisicaoAnimais"`
	Feed           types.Money `json:"alimentacao"`
	Health         types.Money `json:"sanidade"`
	Freight        types.Money `json:"frete"`
	Mortality      types.Money `json:"mortalidade"`
	WeightLoss     types.Money `json:"quebraDePeso"`

	Total types.Money `json:"total"`
}

// OperatingExpenses holds indirect costs apportioned to the entity, mostly
// materialized by applied rateio runs.
type OperatingExpenses struct {
	Administrative    types.Money `json:"administrativo"`
	Sales             types.Money `json:"comercial"`
	FinancialOverhead types.Money `json:"financeiro"`
	Depreciation      types.Money `json:"depreciacao"`
	Other             types.Money `json:"outros"`

	Total types.Money `json:"total"`
}

// FinancialResult nets interest received against interest paid. Distinct from
// OperatingExpenses.FinancialOverhead, which is rateio'd overhead.
type FinancialResult struct {
	Revenue types.Money `json:"receitasFinanceiras"`
	Expense types.Money `json:"despesasFinanceiras"`
	Total   types.Money `json:"total"`
}

// Taxes applies the statutory rates to positive pre-tax income.
type Taxes struct {
	IncomeTax          types.Money `json:"ir"`
	SocialContribution types.Money `json:"csll"`
	Total              types.Money `json:"total"`
}

// Metrics are per-head and per-arroba performance indicators.
type Metrics struct {
	Heads             int     `json:"cabecas"`
	Arrobas           float64 `json:"arrobas"`
	DaysInConfinement int     `json:"diasDeConfinamento"`

	RevenuePerHead types.Money `json:"receitaPorCabeca"`
	CostPerHead    types.Money `json:"custoPorCabeca"`
	ProfitPerHead  types.Money `json:"lucroPorCabeca"`

	RevenuePerArroba types.Money `json:"receitaPorArroba"`
	CostPerArroba    types.Money `json:"custoPorArroba"`
	ProfitPerArroba  types.Money `json:"lucroPorArroba"`

	ROI         types.Money `json:"roi"`
	DailyProfit types.Money `json:"lucroDiario"`
}

// Statement is a computed income statement for one entity and period.
//
// Two builds over identical inputs produce identical statements; there is no
// generation timestamp on purpose.
type Statement struct {
	EntityType  EntityType `json:"entityType"`
	EntityID    *id.ID     `json:"entityId,omitempty"`
	EntityLabel string     `json:"entityLabel"`

	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`

	Revenue Revenue `json:"receita"`

	CostOfGoodsSold CostOfGoodsSold `json:"custoProducao"`
	GrossProfit     types.Money     `json:"lucroBruto"`
	GrossMargin     types.Money     `json:"margemBruta"`

	OperatingExpenses OperatingExpenses `json:"despesasOperacionais"`
	OperatingIncome   types.Money       `json:"resultadoOperacional"`
	OperatingMargin   types.Money       `json:"margemOperacional"`

	FinancialResult   FinancialResult `json:"resultadoFinanceiro"`
	IncomeBeforeTaxes types.Money     `json:"resultadoAntesImpostos"`

	Taxes     Taxes       `json:"impostos"`
	NetIncome types.Money `json:"lucroLiquido"`
	NetMargin types.Money `json:"margemLiquida"`

	Metrics Metrics `json:"indicadores"`
}

// Comparison ranks statements built for several entities over one period.
type Comparison struct {
	Statements []Statement `json:"statements"`

	BestPerformer  string `json:"melhorDesempenho"`
	WorstPerformer string `json:"piorDesempenho"`

	AverageNetMargin types.Money `json:"margemLiquidaMedia"`
	AverageROI       types.Money `json:"roiMedio"`
	TotalNetIncome   types.Money `json:"lucroLiquidoTotal"`

	Insights []Insight `json:"insights"`
}

// Insight is one rule-based observation about a compared entity.
type Insight struct {
	Severity    string `json:"severity"`
	EntityLabel string `json:"entity"`
	Message     string `json:"message"`
}

const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityAlert   = "alert"
)
