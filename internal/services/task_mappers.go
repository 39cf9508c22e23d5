package services

import (
	"cmp"
	"slices"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"goodsgo/internal/models"
	"goodsgo/internal/utils"
)

const (
	unresolvedName = "-"

	groupItems     = "物品"
	groupLeaders   = "指揮者"
	groupLocations = "場所"
)

// newJapaneseCollator returns a fresh collator; collate.Collator is not safe
// for concurrent use.
func newJapaneseCollator() *collate.Collator {
	return collate.New(language.Japanese)
}

// BuildAdminTaskListPageData resolves names, normalizes times, sorts and
// attaches the picker options. tasks is expected newest first; equal sort
// keys keep that order.
func BuildAdminTaskListPageData(
	query models.TaskListQuery,
	tasks []models.Task,
	items []models.Item,
	locations []models.Location,
	leaders []models.User,
) models.AdminTaskListPageData {
	itemNames := make(map[string]string, len(items))
	for _, it := range items {
		itemNames[it.ID] = it.Name
	}
	locationNames := make(map[string]string, len(locations))
	for _, loc := range locations {
		locationNames[loc.ID] = loc.Name
	}
	leaderNames := make(map[string]string, len(leaders))
	for _, u := range leaders {
		leaderNames[u.ID] = u.Name
	}

	adminTasks := make([]models.AdminTask, 0, len(tasks))
	for _, t := range tasks {
		adminTasks = append(adminTasks, models.AdminTask{
			TaskID:             t.ID,
			EventDayType:       t.EventDayType,
			CurrentStatus:      t.CurrentStatus,
			ItemID:             t.ItemID,
			ItemName:           nameOr(itemNames, t.ItemID),
			Quantity:           t.Quantity,
			FromLocationID:     t.FromLocationID,
			FromLocationName:   nameOr(locationNames, t.FromLocationID),
			ToLocationID:       t.ToLocationID,
			ToLocationName:     nameOr(locationNames, t.ToLocationID),
			ScheduledStartTime: timeOr(t.ScheduledStartTime),
			ScheduledEndTime:   timeOr(t.ScheduledEndTime),
			ActualStartTime:    utils.NormalizeTimePtr(t.ActualStartTime),
			ActualEndTime:      utils.NormalizeTimePtr(t.ActualEndTime),
			LeaderUserID:       t.LeaderUserID,
			LeaderName:         leaderName(leaderNames, t.LeaderUserID),
			Note:               t.Note,
		})
	}
	SortAdminTasks(adminTasks, query.Sort)

	return models.AdminTaskListPageData{
		Query:         query,
		Tasks:         adminTasks,
		FilterOptions: BuildTaskFilterOptions(items, locations, leaders),
	}
}

// BuildTaskFilterOptions lists the picker choices, labels in Japanese order.
func BuildTaskFilterOptions(items []models.Item, locations []models.Location, leaders []models.User) models.TaskFilterOptions {
	itemOpts := make([]models.TaskFormOption, 0, len(items))
	for _, it := range items {
		itemOpts = append(itemOpts, models.TaskFormOption{Value: it.ID, Label: it.Name, Group: groupItems})
	}
	leaderOpts := make([]models.TaskFormOption, 0, len(leaders))
	for _, u := range leaders {
		leaderOpts = append(leaderOpts, models.TaskFormOption{Value: u.ID, Label: u.Name, Group: groupLeaders})
	}
	locationOpts := make([]models.TaskFormOption, 0, len(locations))
	for _, loc := range locations {
		locationOpts = append(locationOpts, models.TaskFormOption{Value: loc.ID, Label: loc.Name, Group: groupLocations})
	}

	col := newJapaneseCollator()
	byLabel := func(a, b models.TaskFormOption) int {
		return col.CompareString(a.Label, b.Label)
	}
	slices.SortStableFunc(itemOpts, byLabel)
	slices.SortStableFunc(leaderOpts, byLabel)
	slices.SortStableFunc(locationOpts, byLabel)

	return models.TaskFilterOptions{
		Items:       itemOpts,
		Leaders:     leaderOpts,
		Locations:   locationOpts,
		TimeOptions: utils.QuarterHourOptions(),
		EventDays:   models.EventDayOptions,
		Statuses:    models.StatusOptions,
	}
}

// SortAdminTasks sorts tasks in place, stably.
func SortAdminTasks(tasks []models.AdminTask, sort models.TaskSortState) {
	direction := 1
	if sort.Direction == models.SortDesc {
		direction = -1
	}

	var compare func(a, b models.AdminTask) int
	switch sort.Key {
	case models.SortByStatus:
		compare = func(a, b models.AdminTask) int {
			return cmp.Compare(a.CurrentStatus, b.CurrentStatus)
		}
	case models.SortByItemAndQuantity:
		col := newJapaneseCollator()
		compare = func(a, b models.AdminTask) int {
			if c := col.CompareString(a.ItemName, b.ItemName); c != 0 {
				return c
			}
			return cmp.Compare(a.Quantity, b.Quantity)
		}
	case models.SortByScheduledStartTime:
		compare = func(a, b models.AdminTask) int {
			return cmp.Compare(a.ScheduledStartTime, b.ScheduledStartTime)
		}
	default:
		return
	}
	slices.SortStableFunc(tasks, func(a, b models.AdminTask) int {
		return compare(a, b) * direction
	})
}

// DescribeFilters returns a tag for every active filter. Id filters that do
// not resolve to an option are left out.
func DescribeFilters(filters models.TaskFilterState, options models.TaskFilterOptions) []models.FilterTag {
	tags := []models.FilterTag{}
	if n, err := strconv.Atoi(filters.Day); err == nil {
		tags = append(tags, models.FilterTag{Key: models.ParamDay, Label: models.EventDayType(n).Label()})
	}
	if n, err := strconv.Atoi(filters.Status); err == nil {
		tags = append(tags, models.FilterTag{Key: models.ParamStatus, Label: models.TaskStatus(n).Label()})
	}
	if label, ok := optionLabel(options.Items, filters.ItemID); ok {
		tags = append(tags, models.FilterTag{Key: models.ParamItemID, Label: label})
	}
	if label, ok := optionLabel(options.Leaders, filters.LeaderUserID); ok {
		tags = append(tags, models.FilterTag{Key: models.ParamLeaderUserID, Label: label})
	}
	if label, ok := optionLabel(options.Locations, filters.FromLocationID); ok {
		tags = append(tags, models.FilterTag{Key: models.ParamFromLocationID, Label: "From : " + label})
	}
	if label, ok := optionLabel(options.Locations, filters.ToLocationID); ok {
		tags = append(tags, models.FilterTag{Key: models.ParamToLocationID, Label: "To : " + label})
	}
	return tags
}

func optionLabel(options []models.TaskFormOption, value string) (string, bool) {
	if value == "" {
		return "", false
	}
	for _, o := range options {
		if o.Value == value {
			return o.Label, true
		}
	}
	return "", false
}

func nameOr(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return unresolvedName
}

func leaderName(names map[string]string, id *string) *string {
	if id == nil {
		return nil
	}
	name, ok := names[*id]
	if !ok {
		return nil
	}
	return &name
}

func timeOr(value string) string {
	if v := utils.NormalizeTimeValue(value); v != "" {
		return v
	}
	return unresolvedName
}
