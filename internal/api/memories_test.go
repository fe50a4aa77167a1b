package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoriesGroupScope(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{access: "t"})

	_, err := c.Memories(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, gotQuery)

	gid := int64(42)
	_, err = c.Memories(context.Background(), &gid)
	require.NoError(t, err)
	assert.Equal(t, "groupId=42", gotQuery)
}

func TestCreateMemoryMultipartBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "3", r.FormValue("groupId"))
		assert.Equal(t, "Han river picnic", r.FormValue("title"))
		assert.Equal(t, "37.52", r.FormValue("latitude"))
		assert.Equal(t, "126.93", r.FormValue("longitude"))
		assert.Equal(t, "2026-05-01", r.FormValue("visitedAt"))
		assert.Equal(t, `["picnic","spring"]`, r.FormValue("tagNames"))

		files := r.MultipartForm.File["images"]
		require.Len(t, files, 1)
		assert.Equal(t, "photo.jpg", files[0].Filename)
		f, err := files[0].Open()
		require.NoError(t, err)
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, []byte("jpegbytes"), data)

		w.Write([]byte(`{"data":{"id":10,"groupId":3,"title":"Han river picnic","latitude":37.52,"longitude":126.93,"visitedAt":"2026-05-01"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{access: "t"})
	mem, err := c.CreateMemory(context.Background(), CreateMemoryRequest{
		GroupID:   3,
		Title:     "Han river picnic",
		Latitude:  37.52,
		Longitude: 126.93,
		VisitedAt: "2026-05-01",
		TagNames:  []string{"picnic", "spring"},
		Images:    []ImageFile{{Name: "photo.jpg", Data: []byte("jpegbytes")}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), mem.ID)
}

func TestCreateMemoryRequiredFields(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{access: "t"})

	cases := []struct {
		name string
		req  CreateMemoryRequest
	}{
		{"missing group", CreateMemoryRequest{Title: "t", Latitude: 1, Longitude: 1, VisitedAt: "2026-01-01"}},
		{"missing title", CreateMemoryRequest{GroupID: 1, Latitude: 1, Longitude: 1, VisitedAt: "2026-01-01"}},
		{"missing visit date", CreateMemoryRequest{GroupID: 1, Title: "t", Latitude: 1, Longitude: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.CreateMemory(context.Background(), tc.req)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
		})
	}
	assert.Equal(t, int32(0), hits.Load())
}

func TestCreateMemoryAtZeroCoordinates(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"data":{"id":1,"title":"equator"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{access: "t"})

	// 0°N 0°E is a real place; it must not trip the coordinate validators.
	_, err := c.CreateMemory(context.Background(), CreateMemoryRequest{
		GroupID:   1,
		Title:     "equator",
		Latitude:  0,
		Longitude: 0,
		VisitedAt: "2026-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	// Out-of-range coordinates still fail before the wire.
	_, err = c.CreateMemory(context.Background(), CreateMemoryRequest{
		GroupID:   1,
		Title:     "nowhere",
		Latitude:  123,
		Longitude: 0,
		VisitedAt: "2026-01-01",
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, int32(1), hits.Load())
}

func TestParseVisitDate(t *testing.T) {
	d, err := ParseVisitDate("2026-08-29")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())

	_, err = ParseVisitDate("29/08/2026")
	assert.Error(t, err)
}

func TestGroupTypeLabels(t *testing.T) {
	assert.Equal(t, "커플", GroupCouple.Label())
	assert.Equal(t, "가족", GroupFamily.Label())
	assert.Equal(t, "친구", GroupFriend.Label())
	assert.Equal(t, "팀", GroupTeam.Label())
	assert.Equal(t, "기타", GroupEtc.Label())
	assert.False(t, GroupType("CLUB").Valid())
}
