package game

type multiNotifier []Notifier

// MultiNotifier forwards every update to each of ns in order. Nil entries are skipped.
func MultiNotifier(ns ...Notifier) Notifier {
	var m multiNotifier
	for _, n := range ns {
		if n != nil {
			m = append(m, n)
		}
	}
	return m
}

func (m multiNotifier) Broadcast(messageType, topic string, payload interface{}) {
	for _, n := range m {
		n.Broadcast(messageType, topic, payload)
	}
}
