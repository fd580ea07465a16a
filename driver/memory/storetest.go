package memory

import (
	"errors"
	"sync"
)

// FailBeforeSet configures s to return an error on the next call to Set() with
// a key/value pair that satisfies the given predicate function.
//
// The error is returned before the set is actually performed.
func FailBeforeSet(s *Store, pred func(k, v []byte) bool) {
	s.m.Lock()
	defer s.m.Unlock()

	s.beforeSet = failSetOnce(pred)
}

// FailAfterSet configures s to return an error on the next call to Set() with a
// key/value pair that satisfies the given predicate function.
//
// The error is returned after the set is actually performed.
func FailAfterSet(s *Store, pred func(k, v []byte) bool) {
	s.m.Lock()
	defer s.m.Unlock()

	s.afterSet = failSetOnce(pred)
}

func failSetOnce(pred func(k, v []byte) bool) func(k, v []byte) error {
	var once sync.Once

	return func(k, v []byte) (err error) {
		if pred(k, v) {
			once.Do(func() {
				err = errors.New("<error>")
			})
		}

		return err
	}
}
