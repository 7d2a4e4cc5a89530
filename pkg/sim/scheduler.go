// Package sim реализует дискретно-событийную симуляцию многоэшелонной
// сети поставок: планировщик событий, бутстрэп-сэмплер эмпирических
// распределений и процессы узлов с политикой пополнения по базовому
// уровню запаса.
package sim

import "container/heap"

// Period длительность одного периода симуляции. Регулярные процессы
// и предикатные ожидания опрашивают состояние с этим шагом.
const Period = 1.0

// event отложенное продолжение процесса
type event struct {
	at  float64
	seq uint64
	run func()
}

// eventQueue минимальная куча событий. При равном времени события
// выполняются в порядке постановки (seq), что даёт детерминированное
// воспроизведение при фиксированном seed.
type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) { *q = append(*q, x.(*event)) }

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

// Scheduler кооперативный дискретно-событийный планировщик.
// В каждый момент выполняется ровно одно тело процесса; управление
// передаётся только в явных точках приостановки (Schedule, WaitUntil).
type Scheduler struct {
	now   float64
	seq   uint64
	queue eventQueue
}

// NewScheduler создаёт планировщик с пустой очередью и временем 0
func NewScheduler() *Scheduler {
	s := &Scheduler{queue: make(eventQueue, 0, 64)}
	heap.Init(&s.queue)
	return s
}

// Now возвращает текущее модельное время
func (s *Scheduler) Now() float64 {
	return s.now
}

// Pending возвращает количество отложенных событий
func (s *Scheduler) Pending() int {
	return len(s.queue)
}

// Schedule откладывает выполнение fn на delay единиц модельного времени.
// Неположительная задержка ставит событие на текущее время: оно
// выполнится после завершения текущего тела процесса.
func (s *Scheduler) Schedule(delay float64, fn func()) {
	at := s.now
	if delay > 0 {
		at += delay
	}
	s.seq++
	heap.Push(&s.queue, &event{at: at, seq: s.seq, run: fn})
}

// WaitUntil выполняет fn, как только pred становится истинным.
// Условие проверяется сразу же; если оно уже выполнено, fn вызывается
// синхронно без передачи управления. Иначе проверка повторяется раз
// в период — изменения состояния другими процессами видны при
// следующем опросе, а не мгновенно.
func (s *Scheduler) WaitUntil(pred func() bool, fn func()) {
	if pred() {
		fn()
		return
	}
	s.Schedule(Period, func() { s.WaitUntil(pred, fn) })
}

// Run выполняет события строго раньше horizon и останавливается.
// Процессы не прерываются принудительно: их следующие события просто
// не наступают. По завершении модельное время равно horizon.
func (s *Scheduler) Run(horizon float64) {
	for len(s.queue) > 0 {
		next := s.queue[0]
		if next.at >= horizon {
			break
		}
		heap.Pop(&s.queue)
		s.now = next.at
		next.run()
	}
	s.now = horizon
}
