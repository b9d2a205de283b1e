package schema

// Canonical feature names, matching the exoplanet archive column set the
// model artifacts are trained on.
const (
	FeatRadius        = "pl_rade"   // planet radius, Earth radii
	FeatMass          = "pl_bmasse" // planet mass, Earth masses
	FeatEqTemp        = "pl_eqt"    // equilibrium temperature, K
	FeatOrbitalPeriod = "pl_orbper" // orbital period, days
	FeatStellarTemp   = "st_teff"   // stellar effective temperature, K
	FeatStellarRadius = "st_rad"    // stellar radius, solar radii
	FeatStellarLum    = "st_lum"    // stellar luminosity, log solar
	FeatDistance      = "sy_dist"   // system distance, parsec
)
