// Package driver runs the transformation pipeline for a single unit or for
// every matching file of a directory.
//
// Назначение: загрузить вход, прогнать классификатор с интернером, собрать
// выходной текст и вернуть его вместе с диагностиками и таблицей символов.
//
// Не делает: разбор флагов CLI, рендер диагностик, вывод на терминал.
package driver
