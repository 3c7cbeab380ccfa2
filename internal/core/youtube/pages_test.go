package youtube

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func intPage(start, count int, next string, total int) page[int] {
	items := make([]int, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, start+i)
	}
	return page[int]{items: items, next: next, total: total}
}

func TestFetchAllWalksEveryPage(t *testing.T) {
	var cursors []string
	var progress [][2]int

	items, err := fetchAll(context.Background(),
		func(fetched, total int) { progress = append(progress, [2]int{fetched, total}) },
		func(_ context.Context, cursor string) (page[int], error) {
			cursors = append(cursors, cursor)
			switch cursor {
			case "":
				return intPage(0, 50, "page-2", 130), nil
			case "page-2":
				return intPage(50, 50, "page-3", 130), nil
			case "page-3":
				return intPage(100, 30, "", 130), nil
			default:
				return page[int]{}, errors.New("unexpected cursor")
			}
		})

	require.NoError(t, err)
	require.Len(t, items, 130)
	for i, item := range items {
		require.Equal(t, i, item)
	}
	require.Equal(t, []string{"", "page-2", "page-3"}, cursors)
	require.Equal(t, [][2]int{{50, 130}, {100, 130}, {130, 130}}, progress)
}

func TestFetchAllRejectsOnPageFailure(t *testing.T) {
	boom := errors.New("page 2 went away")
	var progress [][2]int

	items, err := fetchAll(context.Background(),
		func(fetched, total int) { progress = append(progress, [2]int{fetched, total}) },
		func(_ context.Context, cursor string) (page[int], error) {
			if cursor == "" {
				return intPage(0, 50, "page-2", 130), nil
			}
			return page[int]{}, boom
		})

	// The 50 first-page items never surface.
	require.ErrorIs(t, err, boom)
	require.Nil(t, items)
	require.Equal(t, [][2]int{{50, 130}}, progress)
}

func TestFetchAllSinglePage(t *testing.T) {
	var progress [][2]int

	items, err := fetchAll(context.Background(),
		func(fetched, total int) { progress = append(progress, [2]int{fetched, total}) },
		func(_ context.Context, cursor string) (page[int], error) {
			require.Empty(t, cursor)
			return intPage(0, 7, "", 7), nil
		})

	require.NoError(t, err)
	require.Len(t, items, 7)
	require.Equal(t, [][2]int{{7, 7}}, progress)
}

func TestFetchAllWithoutProgressCallback(t *testing.T) {
	items, err := fetchAll(context.Background(), nil,
		func(_ context.Context, cursor string) (page[int], error) {
			if cursor == "" {
				return intPage(0, 2, "more", 4), nil
			}
			return intPage(2, 2, "", 4), nil
		})

	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2, 3}, items)
}
