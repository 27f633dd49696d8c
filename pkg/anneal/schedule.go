package anneal

// Schedule computes the temperature for the next sweep.
type Schedule interface {
	Next(current, initial float64, sweeps int) float64
}

// ScheduleFunc adapts an ordinary function to the [Schedule] interface.
type ScheduleFunc func(current, initial float64, sweeps int) float64

// Next calls f(current, initial, sweeps).
func (f ScheduleFunc) Next(current, initial float64, sweeps int) float64 {
	return f(current, initial, sweeps)
}

// LinearSchedule lowers the temperature by initial/sweeps after every sweep,
// reaching zero once all sweeps have run.
type LinearSchedule struct{}

// Next implements [Schedule].
func (LinearSchedule) Next(current, initial float64, sweeps int) float64 {
	return current - initial/float64(sweeps)
}

// GeometricSchedule multiplies the temperature by Rate after every sweep.
// A Rate outside (0, 1) leaves the temperature unchanged.
type GeometricSchedule struct {
	Rate float64
}

// Next implements [Schedule].
func (g GeometricSchedule) Next(current, _ float64, _ int) float64 {
	if g.Rate <= 0 || g.Rate >= 1 {
		return current
	}
	return current * g.Rate
}
