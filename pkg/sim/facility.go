package sim

import "github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/domain"

// Order заявка на пополнение, поставленная узлом в очередь своего
// поставщика. Заявка исполняется ровно один раз и после отгрузки
// не сохраняется.
type Order struct {
	Requester *Facility
	Quantity  float64
}

// Facility хранящий запасы узел сети. Счётчики и временные ряды узла
// изменяются только его собственными процессами; единственное внешнее
// изменение — приход поставки, увеличивающий OnHand.
type Facility struct {
	Node     int
	IsSource bool

	OnHand   float64 // физический запас на складе
	Position float64 // запас с учётом заказанного и долга по спросу

	ROP       float64
	BaseStock float64

	Upstream        *Facility
	HistDemand      []float64
	DefaultLeadTime float64
	LeadTimeDelay   []float64

	OrderQueue []*Order

	TotalDemand    float64
	TotalBackOrder float64
	TotalLateSales float64
	TotalShipped   float64

	OnHandSamples []float64

	sched   *Scheduler
	sampler *Sampler
	policy  Policy
	margin  float64
}

// Start регистрирует постоянные процессы узла. Источник исполняет
// только заявки: у него нет поставщика, а собственный спрос и запас
// по соглашению не учитываются.
func (f *Facility) Start() {
	if !f.IsSource {
		f.startReorderCheck()
	}
	f.startFulfillment()
	if !f.IsSource {
		f.startDemand()
	}
}

// startReorderCheck раз в период сверяет позицию запаса с точкой
// перезаказа. Заказ сразу увеличивает позицию: заявка уже «в пути»,
// хотя физическая отгрузка ещё не началась.
func (f *Facility) startReorderCheck() {
	var check func()
	check = func() {
		if f.Position <= f.margin*f.ROP {
			qty := f.BaseStock - f.OnHand
			// Отрицательная или нулевая потребность — заказ не размещается
			if qty > 0 {
				f.Upstream.OrderQueue = append(f.Upstream.OrderQueue, &Order{
					Requester: f,
					Quantity:  qty,
				})
				f.Position += qty
			}
		}
		f.sched.Schedule(Period, check)
	}
	f.sched.Schedule(Period, check)
}

// startFulfillment исполняет заявки строго в порядке поступления.
// Доступная часть отгружается сразу; недостающая ждёт прихода
// запаса предикатным ожиданием и уходит тем же порядком. После
// полной отгрузки порождается процесс доставки, и цикл немедленно
// берёт следующую заявку в том же периоде.
func (f *Facility) startFulfillment() {
	var loop func()
	loop = func() {
		if len(f.OrderQueue) == 0 {
			f.sched.Schedule(Period, loop)
			return
		}
		order := f.OrderQueue[0]
		f.OrderQueue = f.OrderQueue[1:]

		shipped := domain.Min(order.Quantity, f.OnHand)
		// Учёт запаса источника не ведётся — поставки не ограничены
		if !f.IsSource {
			f.Position -= shipped
			f.OnHand -= shipped
		}

		remaining := order.Quantity - shipped
		if remaining > 0 {
			f.sched.WaitUntil(func() bool { return f.OnHand >= remaining }, func() {
				if !f.IsSource {
					f.Position -= remaining
					f.OnHand -= remaining
				}
				f.dispatch(order)
				loop()
			})
			return
		}

		f.dispatch(order)
		loop()
	}
	loop()
}

// dispatch порождает процесс доставки одной исполненной заявки.
// Срок поставки складывается из штатного срока получателя и одного
// розыгрыша задержки; по его истечении запас получателя прирастает
// на весь объём заявки — потерь в пути нет.
func (f *Facility) dispatch(order *Order) {
	leadTime := order.Requester.DefaultLeadTime + f.sampler.LeadTimeDelay(order.Requester.LeadTimeDelay)
	target := order.Requester
	qty := order.Quantity
	f.sched.Schedule(leadTime, func() {
		target.OnHand += qty
	})
}

// startDemand раз в период обслуживает клиентский спрос. Запас
// фиксируется в начале периода, до применения спроса; сам спрос
// разыгрывается из исторического ряда узла, а его обработка зависит
// от политики (перенос долга или потеря продаж).
func (f *Facility) startDemand() {
	var tick func()
	tick = func() {
		f.OnHandSamples = append(f.OnHandSamples, f.OnHand)
		f.sched.Schedule(Period, func() {
			demand := f.sampler.Demand(f.HistDemand)
			f.TotalDemand += demand
			f.policy.ApplyDemand(f, demand)
			tick()
		})
	}
	tick()
}

// AvgOnHand возвращает средний запас узла за горизонт; для источника
// всегда 0 — его запас не отслеживается.
func (f *Facility) AvgOnHand() float64 {
	if f.IsSource {
		return 0.0
	}
	return domain.Mean(f.OnHandSamples)
}

// ServiceLevel возвращает уровень сервиса узла по формуле политики;
// источник по соглашению обслуживает на 100%.
func (f *Facility) ServiceLevel() float64 {
	if f.IsSource {
		return 1.0
	}
	return f.policy.ServiceLevel(f)
}
