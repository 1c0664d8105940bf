package utils

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"github.com/Aashish23092/auction-analyzer/dto"
)

var (
	reLatParam  = regexp.MustCompile(`[?&]lat(?:itude)?=([0-9]+\.[0-9]+)`)
	reLonParam  = regexp.MustCompile(`[?&](?:lng|lon)(?:gitude)?=([0-9]+\.[0-9]+)`)
	reCoordPair = regexp.MustCompile(`([0-9]{2,3}\.[0-9]+)\s*,\s*([0-9]{2,3}\.[0-9]+)`)
	reCenter    = regexp.MustCompile(`[?&]c=([0-9]{2,3}\.[0-9]+),([0-9]{2,3}\.[0-9]+)`)
)

// Korea's bounding box, used to tell latitude from longitude in a bare pair.
const (
	minLat, maxLat = 33.0, 39.0
	minLon, maxLon = 124.0, 132.0
)

// ParseLinks returns the lines of raw that are http(s) URLs, in order.
func ParseLinks(raw string) []string {
	var out []string
	sc := bufio.NewScanner(strings.NewReader(raw))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
			out = append(out, line)
		}
	}
	return out
}

// LatLonFromLink pulls a coordinate out of a map link. It understands
// lat/lng query parameters, a bare "a,b" pair inside Korea and the c=lon,lat
// center parameter, in that order.
func LatLonFromLink(link string) (dto.GeoPoint, bool) {
	lat, latOK := floatGroup(reLatParam, link, 1)
	lon, lonOK := floatGroup(reLonParam, link, 1)
	if latOK && lonOK {
		return dto.GeoPoint{Lat: lat, Lon: lon}, true
	}

	if m := reCoordPair.FindStringSubmatch(link); m != nil {
		a, errA := strconv.ParseFloat(m[1], 64)
		b, errB := strconv.ParseFloat(m[2], 64)
		if errA == nil && errB == nil {
			switch {
			case inKorea(a, b):
				return dto.GeoPoint{Lat: a, Lon: b}, true
			case inKorea(b, a):
				return dto.GeoPoint{Lat: b, Lon: a}, true
			}
		}
	}

	if m := reCenter.FindStringSubmatch(link); m != nil {
		lon, errLon := strconv.ParseFloat(m[1], 64)
		lat, errLat := strconv.ParseFloat(m[2], 64)
		if errLon == nil && errLat == nil {
			return dto.GeoPoint{Lat: lat, Lon: lon}, true
		}
	}
	return dto.GeoPoint{}, false
}

func inKorea(lat, lon float64) bool {
	return lat >= minLat && lat <= maxLat && lon >= minLon && lon <= maxLon
}

func floatGroup(re *regexp.Regexp, s string, group int) (float64, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[group], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
