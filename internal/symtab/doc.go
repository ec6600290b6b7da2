// Package symtab owns the literal-to-symbol mapping of one transformation run.
//
// Назначение: решать, какие литералы интернируются, выводить для них метки и
// вести таблицу метка → содержимое в детерминированном порядке.
//
// Не делает: сканирование исходника, сборку выходного текста.
//
// Зависимости: internal/source, internal/diag, golang.org/x/text.
package symtab
