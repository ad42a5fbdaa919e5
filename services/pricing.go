package services

// Line is one (unit price, quantity) pair fed to the calculator.
type Line struct {
	UnitPrice int64
	Quantity  int
}

type Pricing struct {
	Price      int64 `json:"price"`
	Tax        int64 `json:"tax"`
	TotalPrice int64 `json:"totalPrice"`
}

// Tax and total are truncated independently (floor of 10% and of 110%), so
// Price+Tax can be one unit off TotalPrice. Every caller must go through
// CalculatePricing to keep the truncation identical.
func CalculatePricing(lines []Line) Pricing {
	var subtotal int64
	for _, l := range lines {
		subtotal += l.UnitPrice * int64(l.Quantity)
	}
	return Pricing{
		Price:      subtotal,
		Tax:        subtotal * 10 / 100,
		TotalPrice: subtotal * 110 / 100,
	}
}
