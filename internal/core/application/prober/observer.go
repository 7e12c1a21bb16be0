package prober

import "github.com/sweepd/sweepd/internal/core/domain"

type multiObserver []Observer

// MultiObserver returns an Observer notifying all the given non-nil
// observers in order.
func MultiObserver(observers ...Observer) Observer {
	list := make(multiObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	return list
}

func (m multiObserver) Observe(outcome domain.SweepOutcome) {
	for _, o := range m {
		o.Observe(outcome)
	}
}
