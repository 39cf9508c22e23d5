package models

import (
	"net/url"
	"strconv"
)

// FilterAll disables the day and status filters.
const FilterAll = "all"

type TaskSortKey string

const (
	SortByStatus             TaskSortKey = "status"
	SortByItemAndQuantity    TaskSortKey = "itemAndQuantity"
	SortByScheduledStartTime TaskSortKey = "scheduledStartTime"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Query parameter names of the admin task list.
const (
	ParamDay            = "day"
	ParamStatus         = "status"
	ParamItemID         = "itemId"
	ParamLeaderUserID   = "leaderUserId"
	ParamFromLocationID = "fromLocationId"
	ParamToLocationID   = "toLocationId"
	ParamSortKey        = "sortKey"
	ParamSortDirection  = "sortDirection"
)

type TaskFilterState struct {
	Day            string `json:"day"`
	Status         string `json:"status"`
	ItemID         string `json:"itemId"`
	LeaderUserID   string `json:"leaderUserId"`
	FromLocationID string `json:"fromLocationId"`
	ToLocationID   string `json:"toLocationId"`
}

type TaskSortState struct {
	Key       TaskSortKey   `json:"key"`
	Direction SortDirection `json:"direction"`
}

// TaskListQuery is the typed view state carried in the task list URL.
type TaskListQuery struct {
	Filters TaskFilterState `json:"filters"`
	Sort    TaskSortState   `json:"sort"`
}

// DefaultTaskListQuery is the state of a URL without parameters.
func DefaultTaskListQuery() TaskListQuery {
	return TaskListQuery{
		Filters: TaskFilterState{Day: FilterAll, Status: FilterAll},
		Sort:    TaskSortState{Key: SortByScheduledStartTime, Direction: SortAsc},
	}
}

// ParseTaskListQuery decodes query parameters. Unknown or invalid values fall
// back to the defaults.
func ParseTaskListQuery(values url.Values) TaskListQuery {
	q := DefaultTaskListQuery()

	if v := values.Get(ParamDay); isDayOrStatusValue(v) {
		q.Filters.Day = v
	}
	if v := values.Get(ParamStatus); isDayOrStatusValue(v) {
		q.Filters.Status = v
	}
	q.Filters.ItemID = values.Get(ParamItemID)
	q.Filters.LeaderUserID = values.Get(ParamLeaderUserID)
	q.Filters.FromLocationID = values.Get(ParamFromLocationID)
	q.Filters.ToLocationID = values.Get(ParamToLocationID)

	switch k := TaskSortKey(values.Get(ParamSortKey)); k {
	case SortByStatus, SortByItemAndQuantity, SortByScheduledStartTime:
		q.Sort.Key = k
	}
	switch d := SortDirection(values.Get(ParamSortDirection)); d {
	case SortAsc, SortDesc:
		q.Sort.Direction = d
	}
	return q
}

// Values encodes q back into query parameters, leaving defaults out.
func (q TaskListQuery) Values() url.Values {
	def := DefaultTaskListQuery()
	values := url.Values{}
	set := func(key, value, fallback string) {
		if value != fallback {
			values.Set(key, value)
		}
	}
	set(ParamDay, q.Filters.Day, def.Filters.Day)
	set(ParamStatus, q.Filters.Status, def.Filters.Status)
	set(ParamItemID, q.Filters.ItemID, "")
	set(ParamLeaderUserID, q.Filters.LeaderUserID, "")
	set(ParamFromLocationID, q.Filters.FromLocationID, "")
	set(ParamToLocationID, q.Filters.ToLocationID, "")
	set(ParamSortKey, string(q.Sort.Key), string(def.Sort.Key))
	set(ParamSortDirection, string(q.Sort.Direction), string(def.Sort.Direction))
	return values
}

// Encode is the canonical query string of q.
func (q TaskListQuery) Encode() string {
	return q.Values().Encode()
}

// StoreFilter converts the set filters into a store-level filter.
func (q TaskListQuery) StoreFilter() TaskFilter {
	var f TaskFilter
	if n, err := strconv.Atoi(q.Filters.Day); err == nil {
		d := EventDayType(n)
		f.EventDayType = &d
	}
	if n, err := strconv.Atoi(q.Filters.Status); err == nil {
		s := TaskStatus(n)
		f.Status = &s
	}
	f.ItemID = nonEmpty(q.Filters.ItemID)
	f.LeaderUserID = nonEmpty(q.Filters.LeaderUserID)
	f.FromLocationID = nonEmpty(q.Filters.FromLocationID)
	f.ToLocationID = nonEmpty(q.Filters.ToLocationID)
	return f
}

func isDayOrStatusValue(v string) bool {
	switch v {
	case FilterAll, "0", "1", "2":
		return true
	}
	return false
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
