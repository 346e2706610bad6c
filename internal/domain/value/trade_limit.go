package value

// TradeLimit is the maximum quantity of an item purchasable per trade window.
// The zero value means the item has no limit.
type TradeLimit struct {
	limit int64
	set   bool
}

func NewTradeLimit(limit int64) TradeLimit {
	return TradeLimit{limit: limit, set: true}
}

func UnboundedTradeLimit() TradeLimit {
	return TradeLimit{}
}

// TradeLimitFromPtr maps a nullable column to a TradeLimit.
func TradeLimitFromPtr(limit *int64) TradeLimit {
	if limit == nil {
		return UnboundedTradeLimit()
	}
	return NewTradeLimit(*limit)
}

func (l TradeLimit) Value() (int64, bool) {
	return l.limit, l.set
}

func (l TradeLimit) Unbounded() bool {
	return !l.set
}

// Cap bounds units by the limit.
func (l TradeLimit) Cap(units int64) int64 {
	if l.set && units > l.limit {
		return l.limit
	}
	return units
}

func (l TradeLimit) Ptr() *int64 {
	if !l.set {
		return nil
	}
	v := l.limit
	return &v
}
