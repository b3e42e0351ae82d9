package catalog

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"CarStore/internal/upload"
	"CarStore/pkg/kit"
)

type Server struct {
	Store   Store
	Uploads upload.Saver
	Log     *zap.Logger
}

const (
	maxCreateBody = 1 << 20
	// form value fields plus one image at the upload ceiling
	maxCreateForm = upload.MaxImageBytes + maxCreateBody
)

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	c := s.Store.Load(r.Context())
	kit.WriteJSON(w, http.StatusOK, List(c, ParamsFromQuery(r.URL.Query())))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		kit.WriteError(w, r, http.StatusNotFound, "Car not found")
		return
	}

	c := s.Store.Load(r.Context())
	l, found := GetByID(c, id)
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "Car not found")
		return
	}
	kit.WriteJSON(w, http.StatusOK, l)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, file, err := decodeCreate(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad request body")
		return
	}

	if file != nil {
		path, err := s.saveImage(file)
		if err != nil {
			s.writeUploadError(w, r, err)
			return
		}
		req.Image = path
	}

	c := s.Store.Load(r.Context())
	l, err := CreateListing(&c, req, time.Now())
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) || err == errBadYear || err == errBadPrice {
			kit.WriteError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := s.Store.Save(r.Context(), c); err != nil {
		if s.Log != nil {
			s.Log.Error("save catalog failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	kit.WriteJSON(w, http.StatusCreated, l)
}

func (s *Server) handleMakes(w http.ResponseWriter, r *http.Request) {
	c := s.Store.Load(r.Context())
	kit.WriteJSON(w, http.StatusOK, Makes(c))
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	c := s.Store.Load(r.Context())
	kit.WriteJSON(w, http.StatusOK, ModelsForMake(c, chi.URLParam(r, "make")))
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	c := s.Store.Load(r.Context())
	kit.WriteJSON(w, http.StatusOK, Locations(c))
}

type priceRangeResp struct {
	MinPrice *int `json:"minPrice"`
	MaxPrice *int `json:"maxPrice"`
}

type yearRangeResp struct {
	MinYear *int `json:"minYear"`
	MaxYear *int `json:"maxYear"`
}

func (s *Server) handlePriceRange(w http.ResponseWriter, r *http.Request) {
	c := s.Store.Load(r.Context())

	var resp priceRangeResp
	if min, max, ok := PriceRange(c); ok {
		resp.MinPrice, resp.MaxPrice = &min, &max
	}
	kit.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleYearRange(w http.ResponseWriter, r *http.Request) {
	c := s.Store.Load(r.Context())

	var resp yearRangeResp
	if min, max, ok := YearRange(c); ok {
		resp.MinYear, resp.MaxYear = &min, &max
	}
	kit.WriteJSON(w, http.StatusOK, resp)
}

// createBody is the JSON shape of a create request; multipart requests carry
// the same fields as form values. Year and price are JSON numbers.
type createBody struct {
	Make      string      `json:"make"`
	Model     string      `json:"model"`
	Year      json.Number `json:"year"`
	Price     json.Number `json:"price"`
	Location  string      `json:"location"`
	Condition string      `json:"condition"`
	Image     string      `json:"image"`
}

func decodeCreate(w http.ResponseWriter, r *http.Request) (CreateRequest, *multipart.FileHeader, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, maxCreateForm)
		return decodeCreateForm(r)
	}
	req, err := decodeCreateJSON(w, r)
	return req, nil, err
}

func decodeCreateForm(r *http.Request) (CreateRequest, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(maxCreateBody); err != nil {
		return CreateRequest{}, nil, err
	}

	req := CreateRequest{
		Make:      r.FormValue("make"),
		Model:     r.FormValue("model"),
		Year:      r.FormValue("year"),
		Price:     r.FormValue("price"),
		Location:  r.FormValue("location"),
		Condition: r.FormValue("condition"),
		Image:     r.FormValue("image"),
	}

	_, fh, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil, nil
	}
	if err != nil {
		return CreateRequest{}, nil, err
	}
	return req, fh, nil
}

func decodeCreateJSON(w http.ResponseWriter, r *http.Request) (CreateRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCreateBody)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var body createBody
	if err := dec.Decode(&body); err != nil {
		return CreateRequest{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return CreateRequest{}, errors.New("extra data after json object")
	}

	return CreateRequest{
		Make:      body.Make,
		Model:     body.Model,
		Year:      body.Year.String(),
		Price:     body.Price.String(),
		Location:  body.Location,
		Condition: body.Condition,
		Image:     body.Image,
	}, nil
}

func (s *Server) saveImage(fh *multipart.FileHeader) (string, error) {
	if s.Uploads == nil {
		return "", errors.New("uploads not configured")
	}
	return s.Uploads.Save(fh)
}

func (s *Server) writeUploadError(w http.ResponseWriter, r *http.Request, err error) {
	switch err {
	case upload.ErrTooLarge, upload.ErrNotImage:
		kit.WriteError(w, r, http.StatusBadRequest, err.Error())
	default:
		if s.Log != nil {
			s.Log.Error("store image failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "Internal server error")
	}
}
