// metrics содержит прикладные prometheus-метрики board-сервиса.
// Методы безопасны для nil-получателя: сервис без метрик просто ничего не считает.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "board"

// Entity - тип сущности в метках.
type Entity string

const (
	EntityPost    Entity = "post"
	EntityComment Entity = "comment"
	EntityUser    Entity = "user"
)

// Metrics - счётчики мутаций Counter Mutator и несогласованностей.
type Metrics struct {
	likes           *prometheus.CounterVec
	views           prometheus.Counter
	transitions     *prometheus.CounterVec
	inconsistencies *prometheus.CounterVec
}

// New создаёт метрики и регистрирует их в reg (nil - prometheus.DefaultRegisterer).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		likes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "likes_total",
			Help:      "Successful like increments.",
		}, []string{"entity"}),
		views: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "post_views_total",
			Help:      "Successful post view increments.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_total",
			Help:      "Applied status transitions by entity and target status.",
		}, []string{"entity", "to"}),
		inconsistencies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inconsistencies_total",
			Help:      "Counter mutations whose follow-up read failed.",
		}, []string{"op"}),
	}

	reg.MustRegister(m.likes, m.views, m.transitions, m.inconsistencies)

	return m
}

// Like учитывает успешный лайк.
func (m *Metrics) Like(e Entity) {
	if m == nil {
		return
	}

	m.likes.WithLabelValues(string(e)).Inc()
}

// View учитывает успешный просмотр поста.
func (m *Metrics) View() {
	if m == nil {
		return
	}

	m.views.Inc()
}

// Transition учитывает применённую смену статуса.
func (m *Metrics) Transition(e Entity, to string) {
	if m == nil {
		return
	}

	m.transitions.WithLabelValues(string(e), to).Inc()
}

// Inconsistent учитывает ситуацию "мутация прошла, перечитать не удалось".
func (m *Metrics) Inconsistent(op string) {
	if m == nil {
		return
	}

	m.inconsistencies.WithLabelValues(op).Inc()
}
