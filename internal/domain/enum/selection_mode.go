package enum

import "encoding/json"

// SelectionMode identifies which of the three workspace entry modes is
// active. Exactly one is active at any time.
type SelectionMode int

const (
	// ModeFresh binds entry to whatever customer code is typed.
	ModeFresh SelectionMode = 0
	// ModeHeldCustomer targets a customer's open, unprinted tab.
	ModeHeldCustomer SelectionMode = 1
	// ModePrintedBill targets a closed bill; new lines are forbidden.
	ModePrintedBill SelectionMode = 2
)

func (m SelectionMode) String() string {
	names := [...]string{"Fresh", "HeldCustomer", "PrintedBill"}
	if int(m) < 0 || int(m) >= len(names) {
		return "Fresh"
	}
	return names[m]
}

func (m SelectionMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *SelectionMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*m = SelectionMode(i)
		return nil
	}
	switch str {
	case "HeldCustomer":
		*m = ModeHeldCustomer
	case "PrintedBill":
		*m = ModePrintedBill
	default:
		*m = ModeFresh
	}
	return nil
}
