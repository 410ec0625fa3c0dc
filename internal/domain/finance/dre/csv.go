package dre

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"confina/internal/core/types"
)

// WriteCSV renders the statement as the flat Label,Value export: a section
// header row followed by one row per line item. Values are rounded to
// centavos here, at the presentation boundary.
func WriteCSV(w io.Writer, st *Statement) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"DRE - DEMONSTRATIVO DE RESULTADO"},
		{"Entidade", st.EntityLabel},
		{"Período", fmt.Sprintf("%s a %s",
			st.PeriodStart.Format(time.DateOnly), st.PeriodEnd.Format(time.DateOnly))},
		{},

		{"RECEITA"},
		{"Receita Bruta de Vendas", money(st.Revenue.GrossSales)},
		{"Receita Projetada", money(st.Revenue.ProjectedRevenue)},
		{"Deduções de Vendas", money(st.Revenue.SalesDeductions)},
		{"Receita Líquida", money(st.Revenue.NetSales)},
		{},

		{"CUSTO DE PRODUÇÃO"},
		{"Aquisição de Animais", money(st.CostOfGoodsSold.AnimalPurchase)},
		{"Alimentação", money(st.CostOfGoodsSold.Feed)},
		{"Sanidade", money(st.CostOfGoodsSold.Health)},
		{"Frete", money(st.CostOfGoodsSold.Freight)},
		{"Mortalidade", money(st.CostOfGoodsSold.Mortality)},
		{"Quebra de Peso", money(st.CostOfGoodsSold.WeightLoss)},
		{"Custo Total", money(st.CostOfGoodsSold.Total)},
		{},

		{"LUCRO BRUTO", money(st.GrossProfit)},
		{"Margem Bruta (%)", money(st.GrossMargin)},
		{},

		{"DESPESAS OPERACIONAIS"},
		{"Administrativo", money(st.OperatingExpenses.Administrative)},
		{"Comercial", money(st.OperatingExpenses.Sales)},
		{"Financeiro (rateio)", money(st.OperatingExpenses.FinancialOverhead)},
		{"Depreciação", money(st.OperatingExpenses.Depreciation)},
		{"Outras Despesas", money(st.OperatingExpenses.Other)},
		{"Total Despesas", money(st.OperatingExpenses.Total)},
		{},

		{"RESULTADO OPERACIONAL", money(st.OperatingIncome)},
		{"Margem Operacional (%)", money(st.OperatingMargin)},
		{},

		{"RESULTADO FINANCEIRO"},
		{"Receitas Financeiras", money(st.FinancialResult.Revenue)},
		{"Despesas Financeiras", money(st.FinancialResult.Expense)},
		{"Resultado Financeiro", money(st.FinancialResult.Total)},
		{"Resultado Antes dos Impostos", money(st.IncomeBeforeTaxes)},
		{},

		{"IMPOSTOS"},
		{"IR (15%)", money(st.Taxes.IncomeTax)},
		{"CSLL (9%)", money(st.Taxes.SocialContribution)},
		{"Total Impostos", money(st.Taxes.Total)},
		{},

		{"LUCRO LÍQUIDO", money(st.NetIncome)},
		{"Margem Líquida (%)", money(st.NetMargin)},
		{},

		{"INDICADORES"},
		{"Cabeças", fmt.Sprintf("%d", st.Metrics.Heads)},
		{"Arrobas", fmt.Sprintf("%.2f", st.Metrics.Arrobas)},
		{"Dias de Confinamento", fmt.Sprintf("%d", st.Metrics.DaysInConfinement)},
		{"Receita por Cabeça", money(st.Metrics.RevenuePerHead)},
		{"Custo por Cabeça", money(st.Metrics.CostPerHead)},
		{"Lucro por Cabeça", money(st.Metrics.ProfitPerHead)},
		{"Receita por Arroba", money(st.Metrics.RevenuePerArroba)},
		{"Custo por Arroba", money(st.Metrics.CostPerArroba)},
		{"Lucro por Arroba", money(st.Metrics.ProfitPerArroba)},
		{"ROI (%)", money(st.Metrics.ROI)},
		{"Lucro Diário", money(st.Metrics.DailyProfit)},
	}

	for _, row := range rows {
		if len(row) == 0 {
			row = []string{""}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func money(m types.Money) string {
	return types.RoundCents(m).StringFixed(2)
}
