package sim

import (
	"fmt"

	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/apperror"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/domain"
)

// Имена политик в конфигурации
const (
	PolicyBackorder = "backorder"
	PolicyLostSales = "lost_sales"
)

// Policy политика обработки неудовлетворённого спроса. Две реализации
// взаимоисключающие: либо дефицит переносится долгом на будущие
// периоды, либо несостоявшиеся продажи теряются безвозвратно.
type Policy interface {
	// Name возвращает имя политики для конфигурации и отчётов
	Name() string
	// ApplyDemand применяет розыгрыш спроса к состоянию узла
	ApplyDemand(f *Facility, demand float64)
	// ServiceLevel вычисляет уровень сервиса узла по счётчикам политики
	ServiceLevel(f *Facility) float64
}

// BackorderPolicy переносит неудовлетворённый спрос как долг:
// узел продолжает гасить его будущими запасами, ничего не теряя.
type BackorderPolicy struct{}

// Name возвращает имя политики
func (BackorderPolicy) Name() string { return PolicyBackorder }

// ApplyDemand отгружает min(спрос + долг, запас). Приращение долга
// demand - shipment самонормируется: отрицательное значение гасит
// накопленный долг, но не уводит его ниже нуля, поскольку отгрузка
// не превышает спрос плюс долг. Положительный дефицит периода
// дополнительно накапливается в просроченных продажах.
func (BackorderPolicy) ApplyDemand(f *Facility, demand float64) {
	shipment := domain.Min(demand+f.TotalBackOrder, f.OnHand)
	f.OnHand -= shipment
	f.Position -= shipment

	backorder := demand - shipment
	f.TotalBackOrder += backorder
	if backorder > 0 {
		f.TotalLateSales += backorder
	}
}

// ServiceLevel доля спроса, отгруженного вовремя
func (BackorderPolicy) ServiceLevel(f *Facility) float64 {
	return 1.0 - f.TotalLateSales/(f.TotalDemand+domain.DemandEpsilon)
}

// LostSalesPolicy отбрасывает неудовлетворённый спрос: дефицит
// периода не переносится и повторно не обслуживается.
type LostSalesPolicy struct{}

// Name возвращает имя политики
func (LostSalesPolicy) Name() string { return PolicyLostSales }

// ApplyDemand отгружает min(спрос, запас); остаток спроса теряется
func (LostSalesPolicy) ApplyDemand(f *Facility, demand float64) {
	shipment := domain.Min(demand, f.OnHand)
	f.TotalShipped += shipment
	f.OnHand -= shipment
	f.Position -= shipment
}

// ServiceLevel доля фактически отгруженного спроса
func (LostSalesPolicy) ServiceLevel(f *Facility) float64 {
	return f.TotalShipped / (f.TotalDemand + domain.DemandEpsilon)
}

// PolicyFromName возвращает политику по имени из конфигурации
func PolicyFromName(name string) (Policy, error) {
	switch name {
	case PolicyBackorder:
		return BackorderPolicy{}, nil
	case PolicyLostSales:
		return LostSalesPolicy{}, nil
	default:
		return nil, apperror.NewWithField(apperror.CodeInvalidPolicy,
			fmt.Sprintf("unknown fulfillment policy %q", name), "policy")
	}
}
