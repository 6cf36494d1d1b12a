package cas

import "time"

// CacheKey exposes the request-cache key for tests.
func CacheKey(url string) string {
	return cacheKey(url)
}

// BucketPath exposes the index bucket location for tests.
func (l *Layout) BucketPath(url string) string {
	return l.bucketPath(cacheKey(url))
}

// IndexLine exposes index line encoding for tests.
func IndexLine(key, integrity string) []byte {
	line, err := indexLine(indexRecord{Key: key, Integrity: &integrity})
	if err != nil {
		panic(err)
	}
	return line
}

// SetClock replaces the clock used to timestamp index records.
func (l *Layout) SetClock(now func() time.Time) {
	l.now = now
}
