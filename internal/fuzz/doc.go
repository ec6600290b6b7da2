// Package fuzztests houses Go fuzz harnesses for the strsym pipeline
// (source -> lexer -> symtab -> emit). Its goal is to smoke test robustness
// and the round-trip guarantees on arbitrary inputs.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet,
// классифицируют их и собирают вывод.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/symtab, internal/emit,
// internal/diag.

package fuzztests
