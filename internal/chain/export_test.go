package chain

// Stopped is closed once the delivery loop has exited.
func (s *Subscription) Stopped() <-chan struct{} {
	return s.done
}
