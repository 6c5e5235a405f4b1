// Package validator wraps struct validation behind a small interface so
// usecases can declare rules with tags and tests can swap implementations.
package validator
