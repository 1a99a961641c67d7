package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vsinha/itam/pkg/apperrors"
	"github.com/vsinha/itam/pkg/application/dto"
	"github.com/vsinha/itam/pkg/domain/repositories"
)

func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, apperrors.Validation(fmt.Sprintf("invalid id %q", raw), nil)
	}
	return id, nil
}

func pageFrom(q url.Values) (repositories.Page, error) {
	var page repositories.Page
	var err error
	if raw := q.Get("page"); raw != "" {
		if page.Number, err = strconv.Atoi(raw); err != nil || page.Number < 1 {
			return page, apperrors.Validation(fmt.Sprintf("invalid page %q", raw), nil)
		}
	}
	if raw := q.Get("size"); raw != "" {
		if page.Size, err = strconv.Atoi(raw); err != nil || page.Size < 1 {
			return page, apperrors.Validation(fmt.Sprintf("invalid size %q", raw), nil)
		}
	}
	return page, nil
}

func optionalInt64(q url.Values, key string) (*int64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperrors.Validation(fmt.Sprintf("invalid %s %q", key, raw), nil)
	}
	return &v, nil
}

func optionalDate(q url.Values, key string) (*time.Time, error) {
	raw := q.Get(key)
	d, err := dto.ParseDate(&raw)
	if err != nil {
		return nil, apperrors.Validation(key, err)
	}
	return d, nil
}

// dateRange reads <key>_start and <key>_end
func dateRange(q url.Values, key string) (repositories.DateRange, error) {
	from, err := optionalDate(q, key+"_start")
	if err != nil {
		return repositories.DateRange{}, err
	}
	to, err := optionalDate(q, key+"_end")
	if err != nil {
		return repositories.DateRange{}, err
	}
	return repositories.DateRange{From: from, To: to}, nil
}

func text(q url.Values, key string) repositories.TextFilter {
	return repositories.TextFilter(strings.TrimSpace(q.Get(key)))
}
