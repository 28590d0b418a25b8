package duckcli

// builtinKeywords is the static keyword table used when dynamic keyword
// introspection fails, and as the unconditional minimum completion index
// when nothing at all could be loaded. It is deliberately small; the live
// engine is the authoritative source.
var builtinKeywords = []keywordRow{
	{"ALL", "reserved"},
	{"ALTER", "reserved"},
	{"AND", "reserved"},
	{"AS", "reserved"},
	{"ASC", "unreserved"},
	{"ATTACH", "unreserved"},
	{"BEGIN", "unreserved"},
	{"BETWEEN", "reserved"},
	{"BY", "unreserved"},
	{"CALL", "unreserved"},
	{"CASE", "reserved"},
	{"COMMIT", "unreserved"},
	{"COPY", "unreserved"},
	{"CREATE", "reserved"},
	{"DELETE", "reserved"},
	{"DESC", "reserved"},
	{"DESCRIBE", "unreserved"},
	{"DETACH", "unreserved"},
	{"DISTINCT", "reserved"},
	{"DROP", "reserved"},
	{"ELSE", "reserved"},
	{"END", "reserved"},
	{"EXCEPT", "reserved"},
	{"EXISTS", "reserved"},
	{"EXPLAIN", "unreserved"},
	{"FROM", "reserved"},
	{"GROUP", "reserved"},
	{"HAVING", "reserved"},
	{"IN", "reserved"},
	{"INNER", "reserved"},
	{"INSERT", "reserved"},
	{"INTERSECT", "reserved"},
	{"INTO", "reserved"},
	{"IS", "reserved"},
	{"JOIN", "reserved"},
	{"LEFT", "reserved"},
	{"LIKE", "reserved"},
	{"LIMIT", "reserved"},
	{"NOT", "reserved"},
	{"NULL", "reserved"},
	{"OFFSET", "reserved"},
	{"ON", "reserved"},
	{"OR", "reserved"},
	{"ORDER", "reserved"},
	{"OUTER", "reserved"},
	{"PRAGMA", "unreserved"},
	{"RIGHT", "reserved"},
	{"ROLLBACK", "unreserved"},
	{"SELECT", "reserved"},
	{"SET", "unreserved"},
	{"SHOW", "unreserved"},
	{"SUMMARIZE", "unreserved"},
	{"TABLE", "reserved"},
	{"THEN", "reserved"},
	{"UNION", "reserved"},
	{"UPDATE", "reserved"},
	{"USE", "unreserved"},
	{"VACUUM", "unreserved"},
	{"VALUES", "reserved"},
	{"WHEN", "reserved"},
	{"WHERE", "reserved"},
	{"WITH", "reserved"},
}
