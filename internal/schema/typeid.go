package schema

import (
	"hash/crc32"
	"strings"
)

// ComputeID returns the TL constructor id of a normalized signature: the
// CRC-32 (IEEE) of "name field:type ... = Result".
func ComputeID(signature string) uint32 {
	return crc32.ChecksumIEEE([]byte(signature))
}

func signature(name string, fields []rawField, result rawRef) string {
	var b strings.Builder
	b.WriteString(name)
	for _, f := range fields {
		b.WriteByte(' ')
		b.WriteString(f.name)
		b.WriteByte(':')
		writeSigRef(&b, f.typ)
	}
	b.WriteString(" = ")
	writeSigRef(&b, result)
	return b.String()
}

// writeSigRef renders vector<int32> as "vector int32", the form TL hashes.
func writeSigRef(b *strings.Builder, ref rawRef) {
	b.WriteString(ref.name)
	for _, arg := range ref.args {
		b.WriteByte(' ')
		writeSigRef(b, arg)
	}
}

// normalizeLine collapses whitespace so skip entries match regardless of
// spacing. The trailing semicolon is dropped.
func normalizeLine(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimSuffix(line, ";")
	return strings.Join(strings.Fields(line), " ")
}
