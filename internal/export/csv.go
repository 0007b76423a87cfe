// Package export renders the member roster as a spreadsheet-ready CSV.
package export

import (
	"strconv"
	"strings"

	"github.com/gyesanghoe/gyesanghoe/internal/model"
)

// bom makes Excel detect UTF-8; without it Korean text renders as mojibake.
const bom = "\uFEFF"

const header = "이름,기수,휴대폰,이메일,회사,부서,직급,주소,전직장,메모"

// Filename is the attachment name for the roster download.
const Filename = "계상회_회원명부.csv"

// MembersCSV renders one row per member in the given order, every field
// quoted with internal quotes doubled, grade rendered with the 기
// cohort suffix. Callers pass members already sorted by (grade, name).
func MembersCSV(members []model.Member) string {
	var b strings.Builder
	b.WriteString(bom)
	b.WriteString(header)

	for _, m := range members {
		fields := []string{
			m.Name,
			strconv.Itoa(m.Grade) + "기",
			m.Mobile,
			m.Email,
			m.Company,
			m.Department,
			m.Position,
			m.Address,
			m.PrevCompany,
			m.Memo,
		}
		b.WriteByte('\n')
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quote(f))
		}
	}
	return b.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
