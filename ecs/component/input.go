package component

// Input flags entities that react to player input.
type Input struct{}

func (*Input) Kind() Kind { return KindInput }
