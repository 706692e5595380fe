package telegram

import "strconv"

// FormatRupiah renders a whole-rupiah amount as "Rp50.000" with dot thousands
// separators, matching the reply keyboard labels.
func FormatRupiah(amount int64) string {
	digits := strconv.FormatInt(amount, 10)

	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}
	return "Rp" + string(out)
}
