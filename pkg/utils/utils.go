package utils

// Or returns the first non zero value.
func Or[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

func Ternary[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}

func SafeValue[T any](f func() T, defaultValue T) (ret T) {
	defer func() {
		if r := recover(); r != nil {
			ret = defaultValue
		}
	}()
	return f()
}

func FilterSlice[S any, T any](items []S, f func(S) (T, bool)) []T {
	res := make([]T, 0, len(items))
	for _, item := range items {
		if v, ok := f(item); ok {
			res = append(res, v)
		}
	}
	return res
}
