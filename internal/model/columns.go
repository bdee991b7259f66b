package model

import "fmt"

// Input column headers.
const (
	ColCustomer           = "Cliente"
	ColCreditLimit        = "Límite de crédito"
	ColMonthsOnBook       = "MesesAntiguedad"
	ColClassification     = "ClasificacionActual"
	ColWeightedDPP        = "DPPPonderado"
	ColPctBalanceOverdue  = "%SaldoVencido"
	ColDaysMostOverdue    = "DiasMasVencida"
	ColMaxPayment         = "PagosMaximo"
	ColOutstandingBalance = "Cartera total"

	ColHistoryCode = "Código SAP"
	ColHistoryDate = "Historial de aprobaciones/Fecha de resolución"

	ColCoverageName = "Name"
	ColPromissory   = "PAGARE"
	ColContract     = "CONTRATO"
	ColGuarantorID  = "INE TITULAR/REPRESENTANTE"
)

// Output column headers appended after the original primary columns.
const (
	ColLastModification      = "Ultima_Modificacion_Limite"
	ColDaysSinceModification = "Dias_Desde_Modificacion"
	ColRecentlyModified      = "Recientemente_Modificado"
	ColPtsUso                = "Pts_Uso"
	ColPtsADN                = "Pts_ADN"
	ColPtsVariabilidad       = "Pts_Variabilidad"
	ColPtsDPP                = "Pts_DPP"
	ColPtsAntiguedad         = "Pts_Antiguedad"
	ColPtsVencido            = "Pts_Vencido"
	ColPtsCapacidadPago      = "Pts_CapacidadPago"
	ColFinalScore            = "SCORE_FINAL"
	ColDecision              = "Decision_Credito"
	ColSuggestedLimit        = "Monto_Sugerido_Credito"
)

// SalesColumn returns the header of the given sales month (1-based).
func SalesColumn(month int) string {
	return fmt.Sprintf("VtaMes%d", month)
}

// DerivedColumns lists the output columns in the order they are written.
func DerivedColumns() []string {
	return []string{
		ColLastModification,
		ColDaysSinceModification,
		ColRecentlyModified,
		ColPromissory,
		ColContract,
		ColGuarantorID,
		ColPtsUso,
		ColPtsADN,
		ColPtsVariabilidad,
		ColPtsDPP,
		ColPtsAntiguedad,
		ColPtsVencido,
		ColPtsCapacidadPago,
		ColFinalScore,
		ColDecision,
		ColSuggestedLimit,
	}
}
