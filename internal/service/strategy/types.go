package strategy

// Name identifies a strategy family.
type Name string

const (
	ShortStrangle      Name = "Short Strangle"
	BullCallSpread     Name = "Bull Call Spread"
	BearPutSpread      Name = "Bear Put Spread"
	FixedDeltaStrangle Name = "16 Delta Short Strangle"
)

// NoTrade returns the no-trade variant of the strategy name, used when an
// evaluation rejects the trade but still wants to report why.
func (n Name) NoTrade() Name {
	return "No Trade - " + n
}

// LegRole names one option position within a multi-leg strategy.
type LegRole string

const (
	RoleSellCall   LegRole = "sell_call"
	RoleSellPut    LegRole = "sell_put"
	RoleSoldCall   LegRole = "sold_call"
	RoleBoughtCall LegRole = "bought_call"
	RoleSoldPut    LegRole = "sold_put"
	RoleBoughtPut  LegRole = "bought_put"
)

// Leg is a single priced option position. Quantity is assigned by the
// sizing policy before the leg is placed in a signal.
type Leg struct {
	Strike   float64 `json:"strike"`
	IV       float64 `json:"iv"`
	Symbol   string  `json:"symbol"`
	Premium  float64 `json:"premium"`
	Quantity float64 `json:"quantity"`
}

// LegSet is the strategy-specific leg payload. Each variant carries exactly
// the legs its strategy trades, so leg premium keys always correspond to the
// legs actually present.
type LegSet interface {
	Roles() map[LegRole]Leg
}

type StrangleLegs struct {
	SellCall Leg `json:"sell_call"`
	SellPut  Leg `json:"sell_put"`
}

func (l StrangleLegs) Roles() map[LegRole]Leg {
	return map[LegRole]Leg{RoleSellCall: l.SellCall, RoleSellPut: l.SellPut}
}

type CallSpreadLegs struct {
	SoldCall   Leg `json:"sold_call"`
	BoughtCall Leg `json:"bought_call"`
}

func (l CallSpreadLegs) Roles() map[LegRole]Leg {
	return map[LegRole]Leg{RoleSoldCall: l.SoldCall, RoleBoughtCall: l.BoughtCall}
}

type PutSpreadLegs struct {
	SoldPut   Leg `json:"sold_put"`
	BoughtPut Leg `json:"bought_put"`
}

func (l PutSpreadLegs) Roles() map[LegRole]Leg {
	return map[LegRole]Leg{RoleSoldPut: l.SoldPut, RoleBoughtPut: l.BoughtPut}
}

// Signal is one actionable (or rejected) trade recommendation for a single
// (asset, strategy, expiration) combination. A nil leg set marks a no-trade
// signal.
type Signal struct {
	Asset      string  `json:"asset"`
	Strategy   Name    `json:"strategy"`
	Expiration string  `json:"expiration"`
	Premium    float64 `json:"premium"`
	Legs       LegSet  `json:"legs,omitempty"`
	Rationale  string  `json:"rationale"`
}

func (s Signal) NoTrade() bool {
	return s.Legs == nil
}

// LegPremiums maps each leg role to its priced premium.
func (s Signal) LegPremiums() map[LegRole]float64 {
	if s.Legs == nil {
		return map[LegRole]float64{}
	}
	premiums := make(map[LegRole]float64)
	for role, leg := range s.Legs.Roles() {
		premiums[role] = leg.Premium
	}
	return premiums
}

// Evaluation pairs a signal with the instruction describing how to roll it
// at the next expiration. RollInstruction is empty for no-trade signals.
type Evaluation struct {
	Signal          Signal
	RollInstruction string
}
