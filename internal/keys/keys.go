package keys

// Well-known attachment keys. Names are part of the persisted layout and
// must not change.
const (
	EntityType           = "entitytype"
	FloatingTicks        = "floatingticks"
	LavaRepairPos        = "lavapos"
	AbilityCooldowns     = "ability_cooldowns"
	BoundInventory       = "bound_inventory"
	ToolEnabled          = "tool_enabled"
	BoundGlobalVec3      = "bound_global_vec3"
	BoundGlobalPos       = "bound_global_pos"
	LeftClickAbilities   = "left_click_abilities"
	AbilityBindings      = "ability_bindings"
	PocketGenCounter     = "pocketgen_counter"
	PocketGenFuelMult    = "pocketgen_fuelmult"
	PocketGenMaxBurn     = "pocketgen_maxburn"
	FuelCanisterLevel    = "fuelcanister_fuellevel"
	FuelCanisterBurn     = "fuelcanister_burnspeed"
	CopyAreaSettings     = "copy_area_settings"
	CopyOffsetSettings   = "copy_offset_settings"
	CopyFilterSettings   = "copy_filter_settings"
	CopyRedstoneSettings = "copy_redstone_settings"
	CopiedMachineData    = "copied_machine_data"
	PortalGunUUID        = "portalgun_uuid"
	PortalGunFavorite    = "portalgun_favorite"
	PortalGunFavorites   = "portal_gun_favorites"
	PortalGunPrevious    = "portal_gun_previous"
	PortalGunStayOpen    = "portal_gun_stay_open"
	FluidContainer       = "fluid_container"
	ForgeEnergy          = "forge_energy"
	FluidCanisterMode    = "fluid_canister_mode"
	StupefyTargets       = "stupefy_targets"
	ItemStackHandler     = "itemstack_handler"
	ToolContents         = "tool_contents"
	PotionContents       = "potion_contents"
	PotionAmount         = "potion_amount"
	EpicArrow            = "epic_arrow"
	CustomData1          = "custom_data_1"
)
