package product

import (
	"fmt"
	"time"
)

const (
	crwRoot     = "pub/socd/mecb/crw/data/5km/v3.1_op/nc/v1.0/"
	chloraRoot  = "pub/socd1/mecb/coastwatch/viirs/nrt/L3/global/chlora/dineof/"
	slaRoot     = "pub/socd/lsa/rads/sla/daily/nrt/"
	ascatNCDir  = "pub/socd7/coastwatch/metop/ascat/netcdf/day/"
	ascatHDFDir = "pub/socd1/coastwatch/products/ascat/4hr/hdf/"
	jasonDir    = "pub/socd/lsa/johnk/coastwatch/j3/"
	leoRoot     = "pub/socd2/coastwatch/sst/nrt/l3s/leo/pm/"
)

var table = buildTable()

func buildTable() map[string]*Spec {
	specs := []*Spec{
		crwDaily("SST", "Sea surface temperature", "sst", "coraltemp_v3.1"),
		crwDaily("SST-A", "Sea surface temperature anomaly", "ssta", "ct5km_ssta_v3.1"),
		crwDaily("SST-T", "Sea surface temperature 7-day trend", "sst-trend-7d", "ct5km_sst-trend-7d_v3.1"),
		crwDaily("BAA", "Coral bleaching alert area", "baa", "ct5km_baa_v3.1"),
		crwDaily("BHS", "Coral bleaching hotspot", "hs", "ct5km_hs_v3.1"),
		crwDaily("DHW", "Degree heating week", "dhw", "ct5km_dhw_v3.1"),

		crwMonthly("SST-Monthly-Min", "ct5km_sst-min_v3.1"),
		crwMonthly("SST-Monthly-Mean", "ct5km_sst-mean_v3.1"),
		crwMonthly("SST-Monthly-Max", "ct5km_sst-max_v3.1"),
		crwMonthly("SST-A-Monthly-Min", "ct5km_ssta-min_v3.1"),
		crwMonthly("SST-A-Monthly-Mean", "ct5km_ssta-mean_v3.1"),
		crwMonthly("SST-A-Monthly-Max", "ct5km_ssta-max_v3.1"),
		crwMonthly("BAA-Monthly-Max", "ct5km_baa-max_v3.1"),
		crwMonthly("BHS-Monthly-Max", "ct5km_hs-max_v3.1"),
		crwMonthly("DHW-Monthly-Max", "ct5km_dhw-max_v3.1"),

		crwAnnual("SST-Annual-Min", "ct5km_sst-min_v3.1"),
		crwAnnual("SST-Annual-Mean", "ct5km_sst-mean_v3.1"),
		crwAnnual("SST-Annual-Max", "ct5km_sst-max_v3.1"),
		crwAnnual("SST-A-Annual-Min", "ct5km_ssta-min_v3.1"),
		crwAnnual("SST-A-Annual-Mean", "ct5km_ssta-mean_v3.1"),
		crwAnnual("SST-A-Annual-Max", "ct5km_ssta-max_v3.1"),
		crwAnnual("BAA-Annual-Max", "ct5km_baa-max_v3.1"),
		crwAnnual("BHS-Annual-Max", "ct5km_hs-max_v3.1"),
		crwAnnual("DHW-Annual-Max", "ct5km_dhw-max_v3.1"),

		{
			Code:        "CLO",
			Description: "Chlorophyll-a, gap-filled (VIIRS DINEOF)",
			Group:       Primary,
			Granularity: Daily,
			Dir:         yearDir(chloraRoot),
			File: func(t time.Time) string {
				return fmt.Sprintf("V%d%s_a1_WW00_chlora.nc", t.Year(), JulianDay(t))
			},
		},
		{
			Code:        "SLA",
			Description: "Sea level anomaly (RADS near real time)",
			Group:       Coastwatch,
			Granularity: Daily,
			Dir:         yearDir(slaRoot),
			File: func(t time.Time) string {
				start, end := SLAWindow(t)
				return fmt.Sprintf("rads_global_nrt_sla_%s_%s_001.nc", start, end)
			},
		},
		{
			Code:        "JAS",
			Description: "Jason-3 altimetry",
			Group:       Coastwatch,
			Granularity: Daily,
			Dir:         fixedDir(jasonDir),
			File: func(t time.Time) string {
				return "j3_" + t.Format("20060102") + ".nc"
			},
		},
		{
			Code:        "SST-LEO",
			Description: "Sea surface temperature, L3S LEO afternoon passes (ACSPO)",
			Group:       Coastwatch,
			Granularity: Daily,
			Dir: func(t time.Time) string {
				return leoRoot + t.Format("2006") + "/" + JulianDay(t) + "/"
			},
			File: func(t time.Time) string {
				return t.Format("20060102") + "120000-STAR-L3S_GHRSST-SSTsubskin-LEO_PM_D-ACSPO_V2.80-v02.0-fv01.0.nc"
			},
		},
	}

	for _, pass := range []string{"a", "d"} {
		// Bare codes cover MetOp-A and -B NetCDF; the suffixed ones cover
		// MetOp-B and -C in either format.
		for _, sat := range []string{"A", "B"} {
			specs = append(specs, ascat("ASC-"+sat+"-"+pass, sat, pass, ascatNCDir, ".nc"))
		}
		for _, sat := range []string{"B", "C"} {
			code := "ASC-" + sat + "-" + pass
			specs = append(specs,
				ascat(code+"-nc", sat, pass, ascatNCDir, ".nc"),
				ascat(code+"-hdf", sat, pass, ascatHDFDir, ".hdf"),
			)
		}
	}

	m := make(map[string]*Spec, len(specs))
	for _, s := range specs {
		if _, dup := m[s.Code]; dup {
			panic("product: duplicate code " + s.Code)
		}
		m[s.Code] = s
	}
	return m
}

func crwDaily(code, description, sub, convention string) *Spec {
	return &Spec{
		Code:        code,
		Description: description + " (Coral Reef Watch 5 km)",
		Group:       Primary,
		Granularity: Daily,
		Dir:         yearDir(crwRoot + "daily/" + sub + "/"),
		File: func(t time.Time) string {
			return convention + "_" + t.Format("20060102") + ".nc"
		},
	}
}

func crwMonthly(code, convention string) *Spec {
	return &Spec{
		Code:        code,
		Description: "Monthly composite (Coral Reef Watch 5 km)",
		Group:       Primary,
		Granularity: Monthly,
		Dir:         yearDir(crwRoot + "monthly/"),
		File: func(t time.Time) string {
			return convention + "_" + t.Format("200601") + ".nc"
		},
	}
}

func crwAnnual(code, convention string) *Spec {
	return &Spec{
		Code:        code,
		Description: "Annual composite (Coral Reef Watch 5 km)",
		Group:       Primary,
		Granularity: Annual,
		Dir:         fixedDir(crwRoot + "annual/"),
		File: func(t time.Time) string {
			return convention + "_" + t.Format("2006") + ".nc"
		},
	}
}

func ascat(code, sat, pass, dir, ext string) *Spec {
	kind := "ascending"
	if pass == "d" {
		kind = "descending"
	}
	return &Spec{
		Code:        code,
		Description: fmt.Sprintf("ASCAT winds, MetOp-%s %s pass", sat, kind),
		Group:       Coastwatch,
		Granularity: Daily,
		Dir:         fixedDir(dir),
		File: func(t time.Time) string {
			return fmt.Sprintf("AS%d%s%s%ss_WW%s", t.Year(), JulianDay(t), sat, pass, ext)
		},
	}
}

func yearDir(root string) func(time.Time) string {
	return func(t time.Time) string {
		return root + t.Format("2006") + "/"
	}
}

func fixedDir(dir string) func(time.Time) string {
	return func(time.Time) string {
		return dir
	}
}
